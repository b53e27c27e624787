package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// ConversionRepo is the gorm-backed unit-conversion table.
type ConversionRepo struct {
	db *gorm.DB
}

// NewConversionRepo creates a conversion repository.
func NewConversionRepo(db *gorm.DB) *ConversionRepo {
	return &ConversionRepo{db: db}
}

// FindFactor looks up a factor for the exact unit pair at exactly one
// specificity tier. It returns nil (not an error) when the tier has no
// matching row; the conversion service owns the tier fallback order.
func (r *ConversionRepo) FindFactor(ctx context.Context, fromUnit, toUnit string, scope domain.Scope) (*domain.UnitConversionFactor, error) {
	var factor domain.UnitConversionFactor
	err := r.db.WithContext(ctx).
		Where("from_unit = ? AND to_unit = ? AND ingredient_id = ? AND category = ?",
			fromUnit, toUnit, scope.IngredientID, scope.Category).
		First(&factor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &factor, nil
}

// Seed inserts conversion factors idempotently: rows that collide with the
// scope unique index are ignored rather than erroring.
func (r *ConversionRepo) Seed(ctx context.Context, factors []domain.UnitConversionFactor) error {
	if len(factors) == 0 {
		return nil
	}
	for i := range factors {
		if factors[i].ID == uuid.Nil {
			factors[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&factors).Error
}
