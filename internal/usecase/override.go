package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// OverrideService applies preparation-context adjustments to a base
// nutrition map. No matching rule means pass-through, not an error.
type OverrideService struct {
	repo domain.OverrideRepository
}

// NewOverrideService creates an override service.
func NewOverrideService(repo domain.OverrideRepository) *OverrideService {
	return &OverrideService{repo: repo}
}

// Apply adjusts base for the given preparation context. When context is
// empty, preparation stands in for it. The calorie multiplier applies first,
// then each per-nutrient percentage delta — and only to nutrients already
// present in base; nothing is ever fabricated for an absent nutrient.
func (s *OverrideService) Apply(ctx context.Context, ingredientID uuid.UUID, ruleContext, preparation string, base domain.Nutrients) (domain.Nutrients, error) {
	lookup := ruleContext
	if lookup == "" {
		lookup = preparation
	}
	if lookup == "" {
		return base, nil
	}

	rules, err := s.repo.FindActive(ctx, ingredientID, lookup)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return base, nil
	}

	adjusted := base.Clone()
	for _, rule := range rules {
		if rule.CalorieMultiplier != nil {
			if calories, ok := adjusted[domain.NutrientCalories]; ok {
				adjusted[domain.NutrientCalories] = calories * *rule.CalorieMultiplier
			}
		}
		for nutrient, raw := range rule.NutrientAdjustments {
			delta, ok := asFloat(raw)
			if !ok {
				continue
			}
			if current, present := adjusted[nutrient]; present {
				adjusted[nutrient] = current * (1 + delta/100)
			}
		}
	}
	return adjusted, nil
}

// asFloat coerces a JSON-decoded adjustment value to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
