package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/infrastructure/cache"
)

// unitAliases folds common spellings onto the canonical unit names the
// seeded conversion table uses.
var unitAliases = map[string]string{
	"gram":        "g",
	"grams":       "g",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"ounce":       "oz",
	"ounces":      "oz",
	"pound":       "lb",
	"pounds":      "lb",
	"lbs":         "lb",
	"milliliter":  "ml",
	"milliliters": "ml",
	"liter":       "l",
	"liters":      "l",
	"cups":        "cup",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"fl oz":       "fl_oz",
	"floz":        "fl_oz",
}

// NormalizeUnit lowercases, trims and de-aliases a unit name.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	return u
}

// ConversionService resolves unit-conversion factors with a three-tier
// specificity fallback (ingredient, category, general) and memoizes resolved
// factors in an injectable in-process cache.
type ConversionService struct {
	repo  domain.ConversionRepository
	cache *cache.FactorCache
}

// NewConversionService creates a conversion service. The cache is owned by
// the caller so tests and workers can scope it however they need.
func NewConversionService(repo domain.ConversionRepository, factorCache *cache.FactorCache) *ConversionService {
	return &ConversionService{repo: repo, cache: factorCache}
}

// Convert converts value from one unit to another. Identity conversions are
// exact and cost nothing. When no factor exists at any tier the call fails
// with domain.ErrConversionUnavailable; it never guesses.
func (s *ConversionService) Convert(ctx context.Context, value float64, fromUnit, toUnit string, scope domain.Scope) (float64, error) {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return value, nil
	}

	for _, tier := range scopeTiers(scope) {
		key := cacheKey(from, to, tier)
		if factor, ok := s.cache.Get(key); ok {
			return value * factor, nil
		}

		found, err := s.repo.FindFactor(ctx, from, to, tier)
		if err != nil {
			return 0, err
		}
		if found != nil {
			s.cache.Set(key, found.Factor)
			return value * found.Factor, nil
		}
	}

	return 0, fmt.Errorf("%w: %s to %s", domain.ErrConversionUnavailable, from, to)
}

// scopeTiers expands a scope into lookup order: ingredient-specific first,
// then category, then general.
func scopeTiers(scope domain.Scope) []domain.Scope {
	tiers := make([]domain.Scope, 0, 3)
	if scope.IngredientID != uuid.Nil {
		tiers = append(tiers, domain.Scope{IngredientID: scope.IngredientID})
	}
	if scope.Category != "" {
		tiers = append(tiers, domain.Scope{Category: scope.Category})
	}
	return append(tiers, domain.GeneralScope)
}

func cacheKey(from, to string, tier domain.Scope) string {
	return from + ":" + to + ":" + tier.Key()
}
