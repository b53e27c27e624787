package usecase

import (
	"context"
	"errors"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/infrastructure/cache"
)

// DensityService resolves grams-per-milliliter facts with the same
// three-tier specificity fallback as the conversion service, plus a physical
// state dimension. Absence of a density is an expected outcome, reported as
// a false second return, never as an error.
type DensityService struct {
	repo        domain.DensityRepository
	conversions *ConversionService
	cache       *cache.FactorCache
}

// NewDensityService creates a density service.
func NewDensityService(repo domain.DensityRepository, conversions *ConversionService, factorCache *cache.FactorCache) *DensityService {
	return &DensityService{repo: repo, conversions: conversions, cache: factorCache}
}

// GetDensity resolves a density in g/mL. An unspecified state defaults to
// "default".
func (s *DensityService) GetDensity(ctx context.Context, scope domain.Scope, state string) (float64, bool, error) {
	if state == "" {
		state = domain.StateDefault
	}

	for _, tier := range scopeTiers(scope) {
		key := "density:" + tier.Key() + ":" + state
		if density, ok := s.cache.Get(key); ok {
			return density, true, nil
		}

		found, err := s.repo.FindDensity(ctx, tier, state)
		if err != nil {
			return 0, false, err
		}
		if found != nil {
			s.cache.Set(key, found.GramsPerML)
			return found.GramsPerML, true, nil
		}
	}

	return 0, false, nil
}

// ConvertVolumeToWeight converts a volume measurement to grams via density.
// A nil result (with nil error) means no volumetric path exists — either the
// unit cannot reach milliliters or no density fact applies — and the caller
// decides what to do with that.
func (s *DensityService) ConvertVolumeToWeight(ctx context.Context, volume float64, volumeUnit string, scope domain.Scope, state string) (*domain.WeightResult, error) {
	milliliters, err := s.conversions.Convert(ctx, volume, volumeUnit, "ml", scope)
	if errors.Is(err, domain.ErrConversionUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	density, ok, err := s.GetDensity(ctx, scope, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &domain.WeightResult{
		Weight: milliliters * density,
		Unit:   "g",
	}, nil
}
