package usecase

import (
	"context"
	"strings"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
)

// DiscoveryService detects ingredient names with no local record and feeds
// the ETL work queue. Names already known or already pending are skipped, so
// repeated discovery triggers cannot grow the queue without bound.
type DiscoveryService struct {
	ingredients     domain.IngredientRepository
	queue           domain.QueueRepository
	defaultPriority int
	log             *logger.Logger
}

// NewDiscoveryService creates a discovery service.
func NewDiscoveryService(
	ingredients domain.IngredientRepository,
	queue domain.QueueRepository,
	defaultPriority int,
	log *logger.Logger,
) *DiscoveryService {
	if defaultPriority <= 0 {
		defaultPriority = 5
	}
	return &DiscoveryService{
		ingredients:     ingredients,
		queue:           queue,
		defaultPriority: defaultPriority,
		log:             log.With("service", "discovery"),
	}
}

// QueueForDiscovery enqueues a name for ingestion. Priority <= 0 uses the
// configured default; lower numbers are more urgent. Returns false when the
// name is already known or already queued.
func (s *DiscoveryService) QueueForDiscovery(ctx context.Context, name, source string, priority int) (bool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false, domain.ErrInvalidRequest
	}
	if priority <= 0 {
		priority = s.defaultPriority
	}

	existing, err := s.ingredients.FindByName(ctx, name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.log.Debug("ingredient already known, skipping discovery", "name", name)
		return false, nil
	}

	inserted, err := s.queue.Enqueue(ctx, &domain.DiscoveryQueueItem{
		Name:     name,
		Source:   source,
		Priority: priority,
		Status:   domain.QueueStatusPending,
	})
	if err != nil {
		return false, err
	}
	if !inserted {
		s.log.Debug("name already pending, skipping discovery", "name", name)
		return false, nil
	}

	s.log.Info("queued ingredient for discovery", "name", name, "source", source, "priority", priority)
	return true, nil
}

// RequeueFailed flips up to limit failed items back to pending. Retrying
// failures is always an explicit action; nothing schedules it.
func (s *DiscoveryService) RequeueFailed(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 50
	}
	n, err := s.queue.RequeueFailed(ctx, limit)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("requeued failed discovery items", "count", n)
	}
	return n, nil
}
