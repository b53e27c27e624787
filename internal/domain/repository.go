package domain

import (
	"context"

	"github.com/google/uuid"
)

// IngredientRepository persists ingredients and their 1:1 nutrition facts.
type IngredientRepository interface {
	CreateWithFact(ctx context.Context, ing *Ingredient, fact *NutritionFact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ingredient, error)
	FindByName(ctx context.Context, name string) (*Ingredient, error)
	FindByBarcode(ctx context.Context, barcode string) (*Ingredient, error)
	GetFact(ctx context.Context, ingredientID uuid.UUID) (*NutritionFact, error)
	UpdateDataQuality(ctx context.Context, id uuid.UUID, quality float64) error
}

// ConversionRepository resolves unit-conversion factors one specificity tier
// at a time; the usecase layer owns the fallback order and memoization.
type ConversionRepository interface {
	FindFactor(ctx context.Context, fromUnit, toUnit string, scope Scope) (*UnitConversionFactor, error)
	Seed(ctx context.Context, factors []UnitConversionFactor) error
}

// DensityRepository resolves density facts per tier and state.
type DensityRepository interface {
	FindDensity(ctx context.Context, scope Scope, state string) (*DensityFact, error)
	Seed(ctx context.Context, facts []DensityFact) error
}

// OverrideRepository returns active context-override rules for an ingredient.
type OverrideRepository interface {
	FindActive(ctx context.Context, ingredientID uuid.UUID, context string) ([]ContextOverrideRule, error)
	Create(ctx context.Context, rule *ContextOverrideRule) error
}

// QueueRepository manages discovery work items. Enqueue reports false without
// error when a pending item for the name already exists (insert-conflict is
// "already queued", not a failure).
type QueueRepository interface {
	Enqueue(ctx context.Context, item *DiscoveryQueueItem) (bool, error)
	NextPending(ctx context.Context, limit int) ([]DiscoveryQueueItem, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	MarkFailed(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	RequeueFailed(ctx context.Context, limit int) (int, error)
}

// JobRepository writes the EtlJob audit bracket around a batch run.
type JobRepository interface {
	Start(ctx context.Context, jobType string) (*EtlJob, error)
	Complete(ctx context.Context, id uuid.UUID, metadata map[string]any) error
	Fail(ctx context.Context, id uuid.UUID, jobErr error) error
}
