package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// QueueRepo is the gorm-backed discovery work queue.
type QueueRepo struct {
	db *gorm.DB
}

// NewQueueRepo creates a queue repository.
func NewQueueRepo(db *gorm.DB) *QueueRepo {
	return &QueueRepo{db: db}
}

// Enqueue inserts a pending item. The insert carries ON CONFLICT DO NOTHING
// against the partial unique index on (name, status='pending'), so concurrent
// discovery triggers for the same name cannot produce duplicate pending rows.
// Returns false when the item was already queued.
func (r *QueueRepo) Enqueue(ctx context.Context, item *domain.DiscoveryQueueItem) (bool, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = domain.QueueStatusPending
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NextPending returns up to limit pending items, most urgent first (lower
// priority number wins; creation time breaks ties).
func (r *QueueRepo) NextPending(ctx context.Context, limit int) ([]domain.DiscoveryQueueItem, error) {
	var items []domain.DiscoveryQueueItem
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.QueueStatusPending).
		Order("priority ASC, created_at ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkProcessing transitions an item to processing, stamps the attempt time
// and increments the attempt counter in a single UPDATE.
func (r *QueueRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.DiscoveryQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       domain.QueueStatusProcessing,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_attempt": now,
		}).Error
}

// MarkCompleted transitions an item to its terminal completed state.
func (r *QueueRepo) MarkCompleted(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	return r.markTerminal(ctx, id, domain.QueueStatusCompleted, metadata)
}

// MarkFailed transitions an item to its terminal failed state. Failed items
// are never retried automatically; see RequeueFailed.
func (r *QueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	return r.markTerminal(ctx, id, domain.QueueStatusFailed, metadata)
}

func (r *QueueRepo) markTerminal(ctx context.Context, id uuid.UUID, status string, metadata map[string]any) error {
	updates := map[string]any{"status": status}
	if metadata != nil {
		updates["metadata"] = datatypes.JSONMap(metadata)
	}
	return r.db.WithContext(ctx).
		Model(&domain.DiscoveryQueueItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// RequeueFailed flips up to limit failed items back to pending. This is the
// deliberate, explicit retry path; nothing in the engine calls it on a
// schedule.
func (r *QueueRepo) RequeueFailed(ctx context.Context, limit int) (int, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.DiscoveryQueueItem{}).
		Where("status = ?", domain.QueueStatusFailed).
		Order("priority ASC, created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&domain.DiscoveryQueueItem{}).
		Where("id IN ?", ids).
		Update("status", domain.QueueStatusPending)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
