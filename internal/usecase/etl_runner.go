package usecase

import (
	"context"
	"time"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

// RunnerConfig holds tuning for the queue runner.
type RunnerConfig struct {
	SearchLimit int           // external results considered per adapter
	ItemTimeout time.Duration // bound on one item's calls to one adapter
}

// EtlRunner drains the discovery queue: for each pending item it walks the
// adapters in preference order and persists the first normalized result.
// Items are processed strictly sequentially to bound load on the external
// APIs; each adapter attempt runs under its own timeout so a hanging call
// cannot stall the batch indefinitely.
type EtlRunner struct {
	queue       domain.QueueRepository
	jobs        domain.JobRepository
	ingredients domain.IngredientRepository
	adapters    []domain.SourceAdapter
	cfg         RunnerConfig
	log         *logger.Logger
}

// NewEtlRunner creates a runner. The adapter slice order is the source
// preference order.
func NewEtlRunner(
	queue domain.QueueRepository,
	jobs domain.JobRepository,
	ingredients domain.IngredientRepository,
	adapters []domain.SourceAdapter,
	cfg RunnerConfig,
	log *logger.Logger,
) *EtlRunner {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 5
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = 45 * time.Second
	}
	return &EtlRunner{
		queue:       queue,
		jobs:        jobs,
		ingredients: ingredients,
		adapters:    adapters,
		cfg:         cfg,
		log:         log.With("service", "etl_runner"),
	}
}

// ProcessDiscoveryQueue processes up to batchSize pending items in priority
// order. The whole batch is bracketed by one EtlJob audit record; the job
// outcome never influences per-item state.
func (r *EtlRunner) ProcessDiscoveryQueue(ctx context.Context, batchSize int) (*domain.BatchResult, error) {
	job, err := r.jobs.Start(ctx, domain.JobTypeDiscoveryBatch)
	if err != nil {
		return nil, err
	}

	items, err := r.queue.NextPending(ctx, batchSize)
	if err != nil {
		_ = r.jobs.Fail(ctx, job.ID, err)
		return nil, err
	}

	result := &domain.BatchResult{JobID: job.ID}
	for i := range items {
		result.Processed++
		if r.processItem(ctx, &items[i]) {
			result.Completed++
		} else {
			result.Failed++
		}
	}

	if err := r.jobs.Complete(ctx, job.ID, map[string]any{
		"processed": result.Processed,
		"completed": result.Completed,
		"failed":    result.Failed,
	}); err != nil {
		r.log.Warn("failed to finalize job record", "jobId", job.ID, "error", err)
	}

	r.log.Info("discovery batch finished",
		"jobId", job.ID, "processed", result.Processed, "completed", result.Completed, "failed", result.Failed)
	return result, nil
}

// processItem tries each adapter in order and persists the first normalized
// result. Adapter failures fall through to the next source; only full
// exhaustion fails the item.
func (r *EtlRunner) processItem(ctx context.Context, item *domain.DiscoveryQueueItem) bool {
	if err := r.queue.MarkProcessing(ctx, item.ID); err != nil {
		r.log.Error("failed to mark item processing", "item", item.Name, "error", err)
		return false
	}

	for _, adapter := range r.adapters {
		food, err := r.fetchFromAdapter(ctx, adapter, item.Name)
		if err != nil {
			r.log.Debug("adapter yielded nothing", "adapter", adapter.Name(), "item", item.Name, "error", err)
			continue
		}

		if done := r.persist(ctx, item, adapter.Name(), food); done {
			return true
		}
	}

	if err := r.queue.MarkFailed(ctx, item.ID, map[string]any{"reason": "all adapters exhausted"}); err != nil {
		r.log.Error("failed to mark item failed", "item", item.Name, "error", err)
	}
	return false
}

// fetchFromAdapter runs one adapter's search+normalize under the per-item
// timeout.
func (r *EtlRunner) fetchFromAdapter(ctx context.Context, adapter domain.SourceAdapter, name string) (*domain.NormalizedFood, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.cfg.ItemTimeout)
	defer cancel()

	records, err := adapter.Search(callCtx, name, r.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoResults
	}

	best := records[bestMatchIndex(name, records)]
	return adapter.Normalize(&best)
}

// persist writes the normalized food as a new ingredient + nutrition fact,
// unless an ingredient with that name or barcode already exists, in which
// case the item completes against the existing record.
func (r *EtlRunner) persist(ctx context.Context, item *domain.DiscoveryQueueItem, source string, food *domain.NormalizedFood) bool {
	name := food.Name
	if name == "" {
		name = item.Name
	}

	existing, err := r.ingredients.FindByName(ctx, name)
	if err != nil {
		r.log.Error("ingredient lookup failed", "name", name, "error", err)
		return false
	}
	if existing == nil && food.Barcode != "" {
		existing, err = r.ingredients.FindByBarcode(ctx, food.Barcode)
		if err != nil {
			r.log.Error("barcode lookup failed", "barcode", food.Barcode, "error", err)
			return false
		}
	}
	if existing != nil {
		return r.complete(ctx, item, map[string]any{
			"ingredientId": existing.ID.String(),
			"deduplicated": true,
		})
	}

	ing := &domain.Ingredient{
		ExternalID:  food.ExternalID,
		Source:      source,
		Name:        name,
		Category:    food.Category,
		Brand:       food.Brand,
		Barcode:     food.Barcode,
		DataQuality: food.DataQuality,
	}
	fact := &domain.NutritionFact{
		Source:     source,
		Confidence: food.Confidence,
	}
	for nutrient, value := range food.Nutrients {
		fact.SetValue(nutrient, value)
	}

	if err := r.ingredients.CreateWithFact(ctx, ing, fact); err != nil {
		r.log.Error("failed to persist ingredient", "name", name, "source", source, "error", err)
		return false
	}

	r.log.Info("ingested ingredient", "name", name, "source", source, "nutrients", len(food.Nutrients))
	return r.complete(ctx, item, map[string]any{
		"ingredientId": ing.ID.String(),
		"source":       source,
	})
}

func (r *EtlRunner) complete(ctx context.Context, item *domain.DiscoveryQueueItem, metadata map[string]any) bool {
	if err := r.queue.MarkCompleted(ctx, item.ID, metadata); err != nil {
		r.log.Error("failed to mark item completed", "item", item.Name, "error", err)
	}
	return true
}
