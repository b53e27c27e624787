package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

// CalcRequest asks for the nutrition of a quantity of one ingredient,
// optionally prepared in some way.
type CalcRequest struct {
	IngredientID uuid.UUID
	Quantity     float64
	Unit         string
	Context      string
	Preparation  string
}

// CalculationEngine is the synchronous read path: it turns an arbitrary
// (ingredient, quantity, unit, context) tuple into scaled nutrition.
type CalculationEngine struct {
	ingredients domain.IngredientRepository
	conversions *ConversionService
	densities   *DensityService
	overrides   *OverrideService
	log         *logger.Logger
}

// NewCalculationEngine creates a calculation engine.
func NewCalculationEngine(
	ingredients domain.IngredientRepository,
	conversions *ConversionService,
	densities *DensityService,
	overrides *OverrideService,
	log *logger.Logger,
) *CalculationEngine {
	return &CalculationEngine{
		ingredients: ingredients,
		conversions: conversions,
		densities:   densities,
		overrides:   overrides,
		log:         log.With("service", "calculation"),
	}
}

// CalculateForQuantity resolves the requested quantity to grams, scales the
// ingredient's per-100-gram fact, and applies any context overrides.
//
// Gram resolution is a two-stage fallback: a direct mass conversion scoped
// to the ingredient first, then volume-to-weight via density. Mass-native
// units resolve in stage one, volume-native units in stage two, and the
// caller never has to know which applies. If both stages fail the request
// fails — an unresolved conversion is surfaced, never estimated.
func (e *CalculationEngine) CalculateForQuantity(ctx context.Context, req CalcRequest) (*domain.NutritionResult, error) {
	if req.Quantity <= 0 || req.Unit == "" {
		return nil, domain.ErrInvalidRequest
	}

	ing, err := e.ingredients.GetByID(ctx, req.IngredientID)
	if err != nil {
		return nil, err
	}
	fact, err := e.ingredients.GetFact(ctx, ing.ID)
	if err != nil {
		return nil, err
	}

	scope := domain.Scope{IngredientID: ing.ID, Category: ing.Category}

	grams, err := e.resolveGrams(ctx, req.Quantity, req.Unit, scope)
	if err != nil {
		if errors.Is(err, domain.ErrConversionUnavailable) {
			return nil, fmt.Errorf("%w: cannot convert %q to grams for ingredient %q",
				domain.ErrConversionUnavailable, req.Unit, ing.Name)
		}
		return nil, err
	}

	scaleFactor := grams / 100.0
	nutrients := domain.Nutrients{}
	for name, per100g := range fact.Values() {
		nutrients[name] = round3(per100g * scaleFactor)
	}

	if req.Context != "" || req.Preparation != "" {
		nutrients, err = e.overrides.Apply(ctx, ing.ID, req.Context, req.Preparation, nutrients)
		if err != nil {
			return nil, err
		}
	}

	e.log.Debug("calculated nutrition",
		"ingredient", ing.Name, "quantity", req.Quantity, "unit", req.Unit, "grams", grams)

	return &domain.NutritionResult{
		IngredientID: ing.ID,
		Name:         ing.Name,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Grams:        round3(grams),
		Context:      req.Context,
		Nutrients:    nutrients,
		Confidence:   fact.Confidence,
		Source:       fact.Source,
	}, nil
}

// resolveGrams tries a direct mass conversion, then the volumetric path.
func (e *CalculationEngine) resolveGrams(ctx context.Context, quantity float64, unit string, scope domain.Scope) (float64, error) {
	grams, err := e.conversions.Convert(ctx, quantity, unit, "g", scope)
	if err == nil {
		return grams, nil
	}
	if !errors.Is(err, domain.ErrConversionUnavailable) {
		return 0, err
	}

	weight, err := e.densities.ConvertVolumeToWeight(ctx, quantity, unit, scope, "")
	if err != nil {
		return 0, err
	}
	if weight == nil {
		return 0, domain.ErrConversionUnavailable
	}
	return weight.Weight, nil
}

// round3 rounds to 3 decimal places, the precision nutrition values are
// reported at.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
