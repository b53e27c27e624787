package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/platewise/nutrition-engine/internal/domain"
)

// JobRepo is the gorm-backed ETL job audit log.
type JobRepo struct {
	db *gorm.DB
}

// NewJobRepo creates a job repository.
func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{db: db}
}

// Start records a new running job.
func (r *JobRepo) Start(ctx context.Context, jobType string) (*domain.EtlJob, error) {
	job := &domain.EtlJob{
		ID:        uuid.New(),
		JobType:   jobType,
		Status:    domain.JobStatusRunning,
		StartedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// Complete marks a job finished with result metadata.
func (r *JobRepo) Complete(ctx context.Context, id uuid.UUID, metadata map[string]any) error {
	now := time.Now()
	updates := map[string]any{
		"status":       domain.JobStatusCompleted,
		"completed_at": now,
	}
	if metadata != nil {
		updates["metadata"] = datatypes.JSONMap(metadata)
	}
	return r.db.WithContext(ctx).
		Model(&domain.EtlJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Fail marks a job failed with the triggering error payload.
func (r *JobRepo) Fail(ctx context.Context, id uuid.UUID, jobErr error) error {
	now := time.Now()
	updates := map[string]any{
		"status":       domain.JobStatusFailed,
		"completed_at": now,
	}
	if jobErr != nil {
		updates["error"] = jobErr.Error()
	}
	return r.db.WithContext(ctx).
		Model(&domain.EtlJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}
