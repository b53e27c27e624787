package domain

import (
	"time"

	"github.com/google/uuid"
)

// Canonical nutrient vocabulary. Every source adapter normalizes into these
// field names; values are always expressed per 100 g.
const (
	NutrientCalories      = "calories"
	NutrientProtein       = "protein"
	NutrientTotalFat      = "totalFat"
	NutrientSaturatedFat  = "saturatedFat"
	NutrientTransFat      = "transFat"
	NutrientCarbohydrates = "carbohydrates"
	NutrientFiber         = "fiber"
	NutrientSugar         = "sugar"
	NutrientSodium        = "sodium"
	NutrientPotassium     = "potassium"
	NutrientCholesterol   = "cholesterol"
	NutrientVitaminA      = "vitaminA"
	NutrientVitaminC      = "vitaminC"
	NutrientVitaminD      = "vitaminD"
	NutrientCalcium       = "calcium"
	NutrientIron          = "iron"
	NutrientMagnesium     = "magnesium"
)

// Nutrients maps canonical nutrient names to values. A nutrient the source
// did not report is absent from the map, never stored as zero.
type Nutrients map[string]float64

// Clone returns an independent copy of the map.
func (n Nutrients) Clone() Nutrients {
	out := make(Nutrients, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// NutritionFact holds per-100-gram values for one ingredient (1:1).
// Columns are nullable so that "not reported" stays distinguishable from zero.
type NutritionFact struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IngredientID  uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"ingredientId"`
	Calories      *float64  `json:"calories,omitempty"`
	Protein       *float64  `json:"protein,omitempty"`
	TotalFat      *float64  `json:"totalFat,omitempty"`
	SaturatedFat  *float64  `json:"saturatedFat,omitempty"`
	TransFat      *float64  `json:"transFat,omitempty"`
	Carbohydrates *float64  `json:"carbohydrates,omitempty"`
	Fiber         *float64  `json:"fiber,omitempty"`
	Sugar         *float64  `json:"sugar,omitempty"`
	Sodium        *float64  `json:"sodium,omitempty"`
	Potassium     *float64  `json:"potassium,omitempty"`
	Cholesterol   *float64  `json:"cholesterol,omitempty"`
	VitaminA      *float64  `json:"vitaminA,omitempty"`
	VitaminC      *float64  `json:"vitaminC,omitempty"`
	VitaminD      *float64  `json:"vitaminD,omitempty"`
	Calcium       *float64  `json:"calcium,omitempty"`
	Iron          *float64  `json:"iron,omitempty"`
	Magnesium     *float64  `json:"magnesium,omitempty"`
	Source        string    `json:"source"`
	Confidence    float64   `json:"confidence"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Values returns the nutrients present on the fact as a map.
func (f *NutritionFact) Values() Nutrients {
	out := Nutrients{}
	for name, ptr := range f.fields() {
		if ptr != nil && *ptr != nil {
			out[name] = **ptr
		}
	}
	return out
}

// SetValue sets a canonical nutrient column. Unknown names are ignored.
func (f *NutritionFact) SetValue(name string, value float64) {
	if ptr, ok := f.fields()[name]; ok {
		v := value
		*ptr = &v
	}
}

func (f *NutritionFact) fields() map[string]**float64 {
	return map[string]**float64{
		NutrientCalories:      &f.Calories,
		NutrientProtein:       &f.Protein,
		NutrientTotalFat:      &f.TotalFat,
		NutrientSaturatedFat:  &f.SaturatedFat,
		NutrientTransFat:      &f.TransFat,
		NutrientCarbohydrates: &f.Carbohydrates,
		NutrientFiber:         &f.Fiber,
		NutrientSugar:         &f.Sugar,
		NutrientSodium:        &f.Sodium,
		NutrientPotassium:     &f.Potassium,
		NutrientCholesterol:   &f.Cholesterol,
		NutrientVitaminA:      &f.VitaminA,
		NutrientVitaminC:      &f.VitaminC,
		NutrientVitaminD:      &f.VitaminD,
		NutrientCalcium:       &f.Calcium,
		NutrientIron:          &f.Iron,
		NutrientMagnesium:     &f.Magnesium,
	}
}

// NutritionResult is the answer to a quantity calculation: the scaled (and
// optionally context-adjusted) nutrients plus the resolved gram weight and
// the source fact's confidence, so callers can surface uncertainty.
type NutritionResult struct {
	IngredientID uuid.UUID `json:"ingredientId"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Grams        float64   `json:"grams"`
	Context      string    `json:"context,omitempty"`
	Nutrients    Nutrients `json:"nutrients"`
	Confidence   float64   `json:"confidence"`
	Source       string    `json:"source"`
}
