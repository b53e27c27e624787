package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// IngredientRepo is the gorm-backed ingredient + nutrition fact store.
type IngredientRepo struct {
	db *gorm.DB
}

// NewIngredientRepo creates an ingredient repository.
func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// CreateWithFact persists an ingredient and its 1:1 nutrition fact in one
// transaction, so a partial write can never leave an ingredient without
// nutrition data.
func (r *IngredientRepo) CreateWithFact(ctx context.Context, ing *domain.Ingredient, fact *domain.NutritionFact) error {
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	if fact.ID == uuid.Nil {
		fact.ID = uuid.New()
	}
	fact.IngredientID = ing.ID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ing).Error; err != nil {
			return err
		}
		return tx.Create(fact).Error
	})
}

// GetByID loads an ingredient, returning domain.ErrIngredientNotFound when absent.
func (r *IngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := r.db.WithContext(ctx).First(&ing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// FindByName returns the ingredient with the given name, or nil when none
// exists. Absence is a normal outcome for dedup checks, not an error.
func (r *IngredientRepo) FindByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := r.db.WithContext(ctx).First(&ing, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// FindByBarcode returns the ingredient with the given barcode, or nil.
func (r *IngredientRepo) FindByBarcode(ctx context.Context, barcode string) (*domain.Ingredient, error) {
	if barcode == "" {
		return nil, nil
	}
	var ing domain.Ingredient
	err := r.db.WithContext(ctx).First(&ing, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// GetFact loads the nutrition fact owned by an ingredient, returning
// domain.ErrNutritionNotFound when absent.
func (r *IngredientRepo) GetFact(ctx context.Context, ingredientID uuid.UUID) (*domain.NutritionFact, error) {
	var fact domain.NutritionFact
	err := r.db.WithContext(ctx).First(&fact, "ingredient_id = ?", ingredientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNutritionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// UpdateDataQuality refreshes the data-quality score, the only mutable
// attribute of an ingredient.
func (r *IngredientRepo) UpdateDataQuality(ctx context.Context, id uuid.UUID, quality float64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Ingredient{}).
		Where("id = ?", id).
		Update("data_quality", quality)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrIngredientNotFound
	}
	return nil
}
