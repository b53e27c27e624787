package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scope identifies the specificity tier a conversion or density fact applies
// to. A zero Scope is the general tier; IngredientID wins over Category.
type Scope struct {
	IngredientID uuid.UUID
	Category     string
}

// GeneralScope matches facts that apply to everything.
var GeneralScope = Scope{}

// Key renders the scope for cache keys: the ingredient id, the category, or
// "general".
func (s Scope) Key() string {
	if s.IngredientID != uuid.Nil {
		return s.IngredientID.String()
	}
	if s.Category != "" {
		return s.Category
	}
	return "general"
}

// Physical states a density fact can be tagged with.
const (
	StateDefault = "default"
	StateLiquid  = "liquid"
	StateSolid   = "solid"
	StatePowder  = "powder"
)

// UnitConversionFactor is a directed multiplicative edge fromUnit -> toUnit,
// optionally scoped to an ingredient or a category. Immutable once written;
// the unique index makes re-seeding idempotent.
type UnitConversionFactor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUnit     string    `gorm:"uniqueIndex:idx_conversion_scope" json:"fromUnit"`
	ToUnit       string    `gorm:"uniqueIndex:idx_conversion_scope" json:"toUnit"`
	Factor       float64   `json:"factor"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversion_scope" json:"ingredientId,omitempty"`
	Category     string    `gorm:"uniqueIndex:idx_conversion_scope" json:"category,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DensityFact is grams per milliliter, scoped like a conversion factor and
// tagged with a physical state.
type DensityFact struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_density_scope" json:"ingredientId,omitempty"`
	Category     string    `gorm:"uniqueIndex:idx_density_scope" json:"category,omitempty"`
	State        string    `gorm:"uniqueIndex:idx_density_scope" json:"state"`
	GramsPerML   float64   `json:"gramsPerMl"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WeightResult is the outcome of a volume-to-weight conversion.
type WeightResult struct {
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"` // always "g"
}

// ContextOverrideRule adjusts a base nutrition fact for a preparation
// context (boiled, fried, ...). Inactive rules are retained but skipped.
// NutrientAdjustments maps canonical nutrient names to percentage deltas.
type ContextOverrideRule struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	IngredientID        uuid.UUID         `gorm:"type:uuid;index:idx_override_lookup" json:"ingredientId"`
	Context             string            `gorm:"index:idx_override_lookup" json:"context"`
	Active              bool              `gorm:"index:idx_override_lookup" json:"active"`
	CalorieMultiplier   *float64          `json:"calorieMultiplier,omitempty"`
	NutrientAdjustments datatypes.JSONMap `json:"nutrientAdjustments,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
}
