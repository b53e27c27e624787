package usda

import (
	"fmt"
	"strings"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// FoodData Central nutrient IDs for the canonical vocabulary.
const (
	NutrientIDEnergyKcal   = 1008
	NutrientIDEnergyKJ     = 1062
	NutrientIDProtein      = 1003
	NutrientIDTotalFat     = 1004
	NutrientIDSaturatedFat = 1258
	NutrientIDTransFat     = 1257
	NutrientIDCarbohydrate = 1005
	NutrientIDFiber        = 1079
	NutrientIDSugar        = 2000
	NutrientIDSodium       = 1093
	NutrientIDPotassium    = 1092
	NutrientIDCholesterol  = 1253
	NutrientIDVitaminA     = 1106
	NutrientIDVitaminC     = 1162
	NutrientIDVitaminD     = 1114
	NutrientIDCalcium      = 1087
	NutrientIDIron         = 1089
	NutrientIDMagnesium    = 1090
)

const kcalPerKilojoule = 1.0 / 4.184

// nutrientIDMap maps FDC numeric nutrient IDs to canonical field names.
// Energy is handled separately because FDC reports it in either kcal or kJ.
var nutrientIDMap = map[int]string{
	NutrientIDProtein:      domain.NutrientProtein,
	NutrientIDTotalFat:     domain.NutrientTotalFat,
	NutrientIDSaturatedFat: domain.NutrientSaturatedFat,
	NutrientIDTransFat:     domain.NutrientTransFat,
	NutrientIDCarbohydrate: domain.NutrientCarbohydrates,
	NutrientIDFiber:        domain.NutrientFiber,
	NutrientIDSugar:        domain.NutrientSugar,
	NutrientIDSodium:       domain.NutrientSodium,
	NutrientIDPotassium:    domain.NutrientPotassium,
	NutrientIDCholesterol:  domain.NutrientCholesterol,
	NutrientIDVitaminA:     domain.NutrientVitaminA,
	NutrientIDVitaminC:     domain.NutrientVitaminC,
	NutrientIDVitaminD:     domain.NutrientVitaminD,
	NutrientIDCalcium:      domain.NutrientCalcium,
	NutrientIDIron:         domain.NutrientIron,
	NutrientIDMagnesium:    domain.NutrientMagnesium,
}

// dataTypeConfidence reflects how curated each FDC data type is.
var dataTypeConfidence = map[string]float64{
	"Foundation":     0.95,
	"Survey (FNDDS)": 0.90,
	"SR Legacy":      0.85,
	"Branded":        0.80,
}

// Normalize converts a raw FDC record into the canonical per-100-gram shape.
// Search records carry foodNutrients already expressed per 100 g; branded
// detail records may only carry per-serving label values, which are rescaled
// by the declared serving size.
func (c *Client) Normalize(rec *domain.ExternalRecord) (*domain.NormalizedFood, error) {
	food, ok := rec.Payload.(*Food)
	if !ok {
		return nil, fmt.Errorf("usda: unexpected payload type %T", rec.Payload)
	}

	nutrients := extractNutrients(food.FoodNutrients)
	if len(nutrients) == 0 && food.LabelNutrients != nil {
		nutrients = extractLabelNutrients(food)
	}

	confidence, okType := dataTypeConfidence[food.DataType]
	if !okType {
		confidence = 0.70
	}

	return &domain.NormalizedFood{
		ExternalID:  rec.ExternalID,
		Source:      SourceName,
		Name:        strings.ToLower(strings.TrimSpace(food.Description)),
		Category:    strings.ToLower(strings.TrimSpace(food.FoodCategory)),
		Brand:       food.BrandOwner,
		Barcode:     food.GtinUpc,
		Nutrients:   nutrients,
		Confidence:  confidence,
		DataQuality: dataQuality(nutrients, confidence),
	}, nil
}

// extractNutrients maps FDC nutrient rows into the canonical vocabulary.
// Values the source did not report stay absent.
func extractNutrients(foodNutrients []FoodNutrient) domain.Nutrients {
	nutrients := domain.Nutrients{}

	var energyKJ *float64
	for _, n := range foodNutrients {
		switch n.NutrientID {
		case NutrientIDEnergyKcal:
			nutrients[domain.NutrientCalories] = n.Value
		case NutrientIDEnergyKJ:
			v := n.Value
			energyKJ = &v
		default:
			if name, ok := nutrientIDMap[n.NutrientID]; ok {
				nutrients[name] = n.Value
			}
		}
	}

	// only fall back to kJ when no kcal row exists
	if _, hasKcal := nutrients[domain.NutrientCalories]; !hasKcal && energyKJ != nil {
		nutrients[domain.NutrientCalories] = *energyKJ * kcalPerKilojoule
	}

	return nutrients
}

// extractLabelNutrients rescales per-serving label values to per 100 g using
// the declared serving size. Only gram-denominated servings are usable.
func extractLabelNutrients(food *Food) domain.Nutrients {
	nutrients := domain.Nutrients{}
	if food.ServingSize <= 0 {
		return nutrients
	}
	unit := strings.ToLower(food.ServingSizeUnit)
	if unit != "g" && unit != "grm" && unit != "ml" {
		return nutrients
	}
	scale := 100.0 / food.ServingSize

	label := food.LabelNutrients
	set := func(name string, v *LabelValue) {
		if v != nil {
			nutrients[name] = v.Value * scale
		}
	}
	set(domain.NutrientCalories, label.Calories)
	set(domain.NutrientProtein, label.Protein)
	set(domain.NutrientTotalFat, label.Fat)
	set(domain.NutrientSaturatedFat, label.SaturatedFat)
	set(domain.NutrientTransFat, label.TransFat)
	set(domain.NutrientCarbohydrates, label.Carbohydrates)
	set(domain.NutrientFiber, label.Fiber)
	set(domain.NutrientSugar, label.Sugars)
	set(domain.NutrientSodium, label.Sodium)
	set(domain.NutrientPotassium, label.Potassium)
	set(domain.NutrientCholesterol, label.Cholesterol)
	set(domain.NutrientCalcium, label.Calcium)
	set(domain.NutrientIron, label.Iron)

	return nutrients
}

// dataQuality scores a normalized record in [0,1] from nutrient coverage and
// source confidence.
func dataQuality(nutrients domain.Nutrients, confidence float64) float64 {
	coverage := float64(len(nutrients)) / 17.0
	if coverage > 1 {
		coverage = 1
	}
	return confidence*0.6 + coverage*0.4
}
