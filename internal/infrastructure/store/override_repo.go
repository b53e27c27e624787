package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// OverrideRepo is the gorm-backed context-override rule store.
type OverrideRepo struct {
	db *gorm.DB
}

// NewOverrideRepo creates an override repository.
func NewOverrideRepo(db *gorm.DB) *OverrideRepo {
	return &OverrideRepo{db: db}
}

// FindActive returns the active rules for an (ingredient, context) pair.
// Inactive rules are retained in the table but never returned here.
func (r *OverrideRepo) FindActive(ctx context.Context, ingredientID uuid.UUID, ruleContext string) ([]domain.ContextOverrideRule, error) {
	var rules []domain.ContextOverrideRule
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ? AND context = ? AND active = ?", ingredientID, ruleContext, true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Create persists a new override rule.
func (r *OverrideRepo) Create(ctx context.Context, rule *domain.ContextOverrideRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(rule).Error
}
