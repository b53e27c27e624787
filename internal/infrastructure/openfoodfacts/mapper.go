package openfoodfacts

import (
	"fmt"
	"strings"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// saltToSodium converts a salt mass into sodium (NaCl is 40% sodium by the
// conventional 2.5 labelling factor).
const saltToSodium = 1.0 / 2.5

// gramsToMilligrams rescales nutriments Open Food Facts reports in grams but
// the canonical vocabulary carries in milligrams.
const gramsToMilligrams = 1000.0

// nutrimentMap maps Open Food Facts nutriment keys to canonical fields with
// a unit-reconciliation scale. Sodium is special-cased in extractNutrients
// because the source may report it directly or via salt.
var nutrimentMap = map[string]struct {
	field string
	scale float64
}{
	"energy-kcal_100g":   {domain.NutrientCalories, 1},
	"proteins_100g":      {domain.NutrientProtein, 1},
	"fat_100g":           {domain.NutrientTotalFat, 1},
	"saturated-fat_100g": {domain.NutrientSaturatedFat, 1},
	"trans-fat_100g":     {domain.NutrientTransFat, 1},
	"carbohydrates_100g": {domain.NutrientCarbohydrates, 1},
	"fiber_100g":         {domain.NutrientFiber, 1},
	"sugars_100g":        {domain.NutrientSugar, 1},
	"potassium_100g":     {domain.NutrientPotassium, gramsToMilligrams},
	"cholesterol_100g":   {domain.NutrientCholesterol, gramsToMilligrams},
	"vitamin-a_100g":     {domain.NutrientVitaminA, gramsToMilligrams * 1000}, // g -> µg
	"vitamin-c_100g":     {domain.NutrientVitaminC, gramsToMilligrams},
	"vitamin-d_100g":     {domain.NutrientVitaminD, gramsToMilligrams * 1000}, // g -> µg
	"calcium_100g":       {domain.NutrientCalcium, gramsToMilligrams},
	"iron_100g":          {domain.NutrientIron, gramsToMilligrams},
	"magnesium_100g":     {domain.NutrientMagnesium, gramsToMilligrams},
}

// Normalize converts a raw Open Food Facts record into the canonical
// per-100-gram shape.
func (c *Client) Normalize(rec *domain.ExternalRecord) (*domain.NormalizedFood, error) {
	product, ok := rec.Payload.(*Product)
	if !ok {
		return nil, fmt.Errorf("openfoodfacts: unexpected payload type %T", rec.Payload)
	}

	nutrients := extractNutrients(product.Nutriments)

	quality := product.DataQuality
	if quality <= 0 || quality > 1 {
		quality = 0.5
	}

	return &domain.NormalizedFood{
		ExternalID:  product.Code,
		Source:      SourceName,
		Name:        strings.ToLower(strings.TrimSpace(product.ProductName)),
		Category:    strings.ToLower(firstCategory(product.Categories)),
		Brand:       product.Brands,
		Barcode:     product.Code,
		Nutrients:   nutrients,
		Confidence:  0.75, // community-sourced data
		DataQuality: quality,
	}, nil
}

// extractNutrients maps nutriment keys into the canonical vocabulary.
// Energy falls back from kcal to kJ; sodium falls back from the direct value
// to salt divided by 2.5. Values the source did not report stay absent.
func extractNutrients(nutriments map[string]float64) domain.Nutrients {
	nutrients := domain.Nutrients{}

	for key, mapping := range nutrimentMap {
		if v, ok := nutriments[key]; ok {
			nutrients[mapping.field] = v * mapping.scale
		}
	}

	if _, hasKcal := nutrients[domain.NutrientCalories]; !hasKcal {
		if kj, ok := nutriments["energy-kj_100g"]; ok {
			nutrients[domain.NutrientCalories] = kj / 4.184
		}
	}

	if sodium, ok := nutriments["sodium_100g"]; ok {
		nutrients[domain.NutrientSodium] = sodium * gramsToMilligrams
	} else if salt, ok := nutriments["salt_100g"]; ok {
		nutrients[domain.NutrientSodium] = salt * saltToSodium * gramsToMilligrams
	}

	return nutrients
}

// firstCategory picks the leading entry of the comma-separated category list
// and strips the language prefix ("en:dairy" -> "dairy").
func firstCategory(categories string) string {
	if categories == "" {
		return ""
	}
	first := categories
	if idx := strings.Index(categories, ","); idx > 0 {
		first = categories[:idx]
	}
	first = strings.TrimSpace(first)
	if idx := strings.Index(first, ":"); idx >= 0 {
		first = first[idx+1:]
	}
	return first
}
