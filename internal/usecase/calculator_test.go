package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/infrastructure/cache"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

type calcFixture struct {
	ingredients *mockIngredientRepo
	convRepo    *mockConversionRepo
	densRepo    *mockDensityRepo
	overrides   *mockOverrideRepo
	engine      *CalculationEngine
}

func newCalcFixture() *calcFixture {
	ingredients := newMockIngredientRepo()
	convRepo := newMockConversionRepo()
	convRepo.seedGeneralUnits()
	densRepo := newMockDensityRepo()
	overrides := &mockOverrideRepo{}

	factorCache := cache.NewFactorCache()
	conversions := NewConversionService(convRepo, factorCache)
	densities := NewDensityService(densRepo, conversions, factorCache)

	return &calcFixture{
		ingredients: ingredients,
		convRepo:    convRepo,
		densRepo:    densRepo,
		overrides:   overrides,
		engine: NewCalculationEngine(
			ingredients,
			conversions,
			densities,
			NewOverrideService(overrides),
			logger.NewNop(),
		),
	}
}

func (f *calcFixture) addChickenBreast() *domain.Ingredient {
	ing := &domain.Ingredient{Name: "chicken breast", Category: "poultry"}
	fact := &domain.NutritionFact{Source: "usda", Confidence: 0.95}
	fact.SetValue(domain.NutrientCalories, 165)
	fact.SetValue(domain.NutrientProtein, 31)
	fact.SetValue(domain.NutrientTotalFat, 3.6)
	f.ingredients.addIngredient(ing, fact)
	return ing
}

func TestCalculateForQuantity_MassScaling(t *testing.T) {
	f := newCalcFixture()
	ing := f.addChickenBreast()

	got, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: ing.ID,
		Quantity:     250,
		Unit:         "g",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Grams != 250 {
		t.Errorf("grams = %v, want 250", got.Grams)
	}
	if got.Nutrients[domain.NutrientCalories] != 412.5 {
		t.Errorf("calories = %v, want 412.5", got.Nutrients[domain.NutrientCalories])
	}
	if got.Nutrients[domain.NutrientProtein] != 77.5 {
		t.Errorf("protein = %v, want 77.5", got.Nutrients[domain.NutrientProtein])
	}
	if got.Source != "usda" || got.Confidence != 0.95 {
		t.Errorf("provenance = %q/%v, want usda/0.95", got.Source, got.Confidence)
	}
}

func TestCalculateForQuantity_ScalingLinearity(t *testing.T) {
	f := newCalcFixture()
	ing := f.addChickenBreast()
	ctx := context.Background()

	single, err := f.engine.CalculateForQuantity(ctx, CalcRequest{IngredientID: ing.ID, Quantity: 100, Unit: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	double, err := f.engine.CalculateForQuantity(ctx, CalcRequest{IngredientID: ing.ID, Quantity: 200, Unit: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, v := range single.Nutrients {
		if math.Abs(double.Nutrients[name]-2*v) > 1e-6 {
			t.Errorf("%s: 200g = %v, want double of %v", name, double.Nutrients[name], v)
		}
	}
}

func TestCalculateForQuantity_VolumeViaDensity(t *testing.T) {
	f := newCalcFixture()
	ing := &domain.Ingredient{Name: "olive oil", Category: "oil"}
	fact := &domain.NutritionFact{Source: "usda", Confidence: 0.9}
	fact.SetValue(domain.NutrientCalories, 884)
	f.ingredients.addIngredient(ing, fact)
	f.densRepo.add(domain.Scope{Category: "oil"}, domain.StateDefault, 0.92)

	got, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: ing.ID,
		Quantity:     2,
		Unit:         "tbsp",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 tbsp = 29.5736 mL * 0.92 g/mL = 27.208 g
	if math.Abs(got.Grams-27.208) > 0.01 {
		t.Errorf("grams = %v, want ~27.208", got.Grams)
	}
	wantCalories := 884 * 27.2077 / 100
	if math.Abs(got.Nutrients[domain.NutrientCalories]-wantCalories) > 0.5 {
		t.Errorf("calories = %v, want ~%v", got.Nutrients[domain.NutrientCalories], wantCalories)
	}
}

func TestCalculateForQuantity_ContextOverride(t *testing.T) {
	f := newCalcFixture()
	ing := f.addChickenBreast()
	mult := 1.3
	f.overrides.rules = []domain.ContextOverrideRule{{
		IngredientID:        ing.ID,
		Context:             "fried",
		CalorieMultiplier:   &mult,
		NutrientAdjustments: datatypes.JSONMap{domain.NutrientTotalFat: 150.0},
		Active:              true,
	}}

	got, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: ing.ID,
		Quantity:     100,
		Unit:         "g",
		Context:      "fried",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.Nutrients[domain.NutrientCalories]-214.5) > 1e-6 {
		t.Errorf("calories = %v, want 214.5", got.Nutrients[domain.NutrientCalories])
	}
	if math.Abs(got.Nutrients[domain.NutrientTotalFat]-9) > 1e-6 {
		t.Errorf("totalFat = %v, want 9", got.Nutrients[domain.NutrientTotalFat])
	}
}

func TestCalculateForQuantity_UnresolvableUnit(t *testing.T) {
	f := newCalcFixture()
	ing := f.addChickenBreast()

	_, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: ing.ID,
		Quantity:     1,
		Unit:         "handful",
	})
	if !errors.Is(err, domain.ErrConversionUnavailable) {
		t.Errorf("error = %v, want ErrConversionUnavailable", err)
	}
}

func TestCalculateForQuantity_UnknownIngredient(t *testing.T) {
	f := newCalcFixture()

	_, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: uuid.New(),
		Quantity:     100,
		Unit:         "g",
	})
	if !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Errorf("error = %v, want ErrIngredientNotFound", err)
	}
}

func TestCalculateForQuantity_InvalidRequest(t *testing.T) {
	f := newCalcFixture()
	ing := f.addChickenBreast()

	tests := []CalcRequest{
		{IngredientID: ing.ID, Quantity: 0, Unit: "g"},
		{IngredientID: ing.ID, Quantity: -5, Unit: "g"},
		{IngredientID: ing.ID, Quantity: 100, Unit: ""},
	}
	for _, req := range tests {
		if _, err := f.engine.CalculateForQuantity(context.Background(), req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("request %+v: error = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestCalculateForQuantity_AbsentNutrientStaysAbsent(t *testing.T) {
	f := newCalcFixture()
	ing := &domain.Ingredient{Name: "oddity", Category: ""}
	fact := &domain.NutritionFact{Source: "test", Confidence: 0.5}
	fact.SetValue(domain.NutrientCalories, 50)
	f.ingredients.addIngredient(ing, fact)

	got, err := f.engine.CalculateForQuantity(context.Background(), CalcRequest{
		IngredientID: ing.ID,
		Quantity:     200,
		Unit:         "g",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Nutrients) != 1 {
		t.Errorf("nutrients = %v, want only calories", got.Nutrients)
	}
	if _, present := got.Nutrients[domain.NutrientFiber]; present {
		t.Error("fiber appeared for a fact that never reported it")
	}
}
