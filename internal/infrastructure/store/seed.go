package store

import (
	"context"

	"github.com/platewise/nutrition-engine/internal/domain"
)

const seedConfidence = 0.90

// generalConversions is the fixed table of SI/imperial conversions seeded at
// startup. All rows are general scope; factors are multiplicative.
var generalConversions = []struct {
	from   string
	to     string
	factor float64
}{
	// weight
	{"g", "kg", 0.001},
	{"kg", "g", 1000},
	{"oz", "g", 28.3495},
	{"g", "oz", 1.0 / 28.3495},
	{"lb", "g", 453.592},
	{"g", "lb", 1.0 / 453.592},
	{"lb", "oz", 16},
	{"oz", "lb", 1.0 / 16.0},
	// volume
	{"ml", "l", 0.001},
	{"l", "ml", 1000},
	{"cup", "ml", 236.588},
	{"ml", "cup", 1.0 / 236.588},
	{"tbsp", "ml", 14.7868},
	{"ml", "tbsp", 1.0 / 14.7868},
	{"tsp", "ml", 4.92892},
	{"ml", "tsp", 1.0 / 4.92892},
	{"fl_oz", "ml", 29.5735},
	{"ml", "fl_oz", 1.0 / 29.5735},
}

// categoryDensities is the fixed table of common-category densities (g/mL),
// tagged with the physical state the density was measured in.
var categoryDensities = []struct {
	category string
	state    string
	density  float64
}{
	{"water", domain.StateLiquid, 1.00},
	{"milk", domain.StateLiquid, 1.03},
	{"oil", domain.StateLiquid, 0.92},
	{"honey", domain.StateLiquid, 1.42},
	{"flour", domain.StatePowder, 0.57},
	{"sugar", domain.StatePowder, 0.85},
	{"salt", domain.StatePowder, 1.21},
	{"rice", domain.StateSolid, 0.75},
	{"butter", domain.StateSolid, 0.91},
}

// SeedReferenceData populates the general conversion factors and the common
// category densities. Safe to call on every startup: duplicate rows are
// ignored by the repositories' conflict handling.
func SeedReferenceData(ctx context.Context, conversions *ConversionRepo, densities *DensityRepo) error {
	factors := make([]domain.UnitConversionFactor, 0, len(generalConversions))
	for _, c := range generalConversions {
		factors = append(factors, domain.UnitConversionFactor{
			FromUnit: c.from,
			ToUnit:   c.to,
			Factor:   c.factor,
		})
	}
	if err := conversions.Seed(ctx, factors); err != nil {
		return err
	}

	facts := make([]domain.DensityFact, 0, len(categoryDensities)*2)
	for _, d := range categoryDensities {
		facts = append(facts, domain.DensityFact{
			Category:   d.category,
			State:      d.state,
			GramsPerML: d.density,
			Confidence: seedConfidence,
		})
		// also resolvable without the caller knowing the physical state
		facts = append(facts, domain.DensityFact{
			Category:   d.category,
			State:      domain.StateDefault,
			GramsPerML: d.density,
			Confidence: seedConfidence,
		})
	}
	return densities.Seed(ctx, facts)
}
