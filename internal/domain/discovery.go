package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Discovery queue item states.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusCompleted  = "completed"
	QueueStatusFailed     = "failed"
)

// ETL job states.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobTypeDiscoveryBatch labels EtlJob rows written by the queue runner.
const JobTypeDiscoveryBatch = "discovery_batch"

// DiscoveryQueueItem is one unit of ingestion work: an ingredient name the
// local store does not know yet. Lower priority numbers are processed first.
// The partial unique index keeps at most one pending row per name, which
// makes the dedup-then-insert race in concurrent discovery triggers safe.
type DiscoveryQueueItem struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string            `gorm:"uniqueIndex:idx_queue_pending,where:status = 'pending'" json:"name"`
	Source      string            `json:"source"`
	Priority    int               `gorm:"index" json:"priority"`
	Status      string            `gorm:"column:status;uniqueIndex:idx_queue_pending,where:status = 'pending';index" json:"status"`
	Attempts    int               `json:"attempts"`
	LastAttempt *time.Time        `json:"lastAttempt,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// EtlJob is a coarse audit record wrapping one batch invocation of the
// runner. Purely observational; it never influences per-item outcomes.
type EtlJob struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	JobType     string            `gorm:"index" json:"jobType"`
	Status      string            `json:"status"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// BatchResult summarizes one ProcessDiscoveryQueue invocation.
type BatchResult struct {
	JobID     uuid.UUID `json:"jobId"`
	Processed int       `json:"processed"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
}
