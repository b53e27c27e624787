package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// DensityRepo is the gorm-backed density table.
type DensityRepo struct {
	db *gorm.DB
}

// NewDensityRepo creates a density repository.
func NewDensityRepo(db *gorm.DB) *DensityRepo {
	return &DensityRepo{db: db}
}

// FindDensity looks up a density fact at exactly one specificity tier and
// physical state. Nil result means the tier has nothing; the density service
// owns the fallback order.
func (r *DensityRepo) FindDensity(ctx context.Context, scope domain.Scope, state string) (*domain.DensityFact, error) {
	var fact domain.DensityFact
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ? AND category = ? AND state = ?",
			scope.IngredientID, scope.Category, state).
		First(&fact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// Seed inserts density facts idempotently, ignoring duplicate scope/state rows.
func (r *DensityRepo) Seed(ctx context.Context, facts []domain.DensityFact) error {
	if len(facts) == 0 {
		return nil
	}
	for i := range facts {
		if facts[i].ID == uuid.Nil {
			facts[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&facts).Error
}
