package domain

import "errors"

var (
	// ErrIngredientNotFound is returned when an ingredient is absent from the local store
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrNutritionNotFound is returned when an ingredient has no nutrition fact row
	ErrNutritionNotFound = errors.New("nutrition data not found")

	// ErrConversionUnavailable is returned when no conversion factor or density
	// fact applies to the requested unit pair at any specificity tier
	ErrConversionUnavailable = errors.New("no conversion available")

	// ErrExternalFetch is returned when an external food-data API request fails
	ErrExternalFetch = errors.New("external food-data request failed")

	// ErrNoResults is returned when an external search yields zero records
	ErrNoResults = errors.New("no external records found")

	// ErrAlreadyQueued is returned when a pending discovery item already exists for a name
	ErrAlreadyQueued = errors.New("ingredient already queued for discovery")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
