package api

import (
	"context"
	"fmt"
	"strings"

	"greenlight/internal/lifecycle"
	"greenlight/internal/metrics"
	"greenlight/internal/queue"
)

// ContentService exposes queue operations in transport terms. It owns
// DTO conversion so the HTTP server and tests stay thin.
type ContentService struct {
	store      *queue.Store
	aggregator *metrics.Aggregator
}

// NewContentService wraps a queue store.
func NewContentService(store *queue.Store) *ContentService {
	return &ContentService{
		store:      store,
		aggregator: metrics.NewAggregator(store),
	}
}

// Create enqueues a topic or returns the already-active item for it. The
// boolean reports whether a new item was created.
func (s *ContentService) Create(ctx context.Context, req CreateItemRequest) (*ContentItem, bool, error) {
	item, created, err := s.store.CreateOrGet(ctx, queue.CreateRequest{
		Topic:     req.Topic,
		SourceURL: req.SourceURL,
		Platform:  req.Platform,
		Language:  req.Language,
	})
	if err != nil {
		return nil, false, err
	}
	dto := FromItem(item)
	return &dto, created, nil
}

// List returns items matching the filters, newest first. exhaustedOnly
// narrows to items pinned in ERROR past the retry cap.
func (s *ContentService) List(ctx context.Context, statuses []string, platform string, limit int, exhaustedOnly bool) ([]ContentItem, error) {
	filter := queue.ListFilter{Platform: platform, Limit: limit, ExhaustedOnly: exhaustedOnly}
	for _, raw := range statuses {
		status, ok := lifecycle.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", queue.ErrValidation, raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FromItems(items), nil
}

// Describe fetches one item by id.
func (s *ContentService) Describe(ctx context.Context, id string) (*ContentItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: content item %s", queue.ErrNotFound, id)
	}
	dto := FromItem(item)
	return &dto, nil
}

// Transition applies a requested status change, retry, or manual override.
func (s *ContentService) Transition(ctx context.Context, id string, req TransitionRequest) (*ContentItem, error) {
	if req.Override {
		target, ok := lifecycle.ParseStatus(req.Target)
		if !ok {
			return nil, fmt.Errorf("%w: unknown target status %q", queue.ErrValidation, req.Target)
		}
		item, err := s.store.Override(ctx, id, target, req.Actor, req.Note)
		if err != nil {
			return nil, err
		}
		dto := FromItem(item)
		return &dto, nil
	}

	tr, err := toTransition(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", queue.ErrValidation, err)
	}
	item, err := s.store.Transition(ctx, id, tr, req.Actor)
	if err != nil {
		return nil, err
	}
	dto := FromItem(item)
	return &dto, nil
}

// Audit returns an item's audit trail, newest first.
func (s *ContentService) Audit(ctx context.Context, id string) ([]AuditEntry, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: content item %s", queue.ErrNotFound, id)
	}
	entries, err := s.store.AuditFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromAuditEntries(entries), nil
}

// Metrics computes the current pipeline snapshot.
func (s *ContentService) Metrics(ctx context.Context) (*MetricsResponse, error) {
	snapshot, err := s.aggregator.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	resp := FromSnapshot(snapshot)
	return &resp, nil
}

// Trigger queues a pipeline nudge for the orchestration runner.
func (s *ContentService) Trigger(ctx context.Context, actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = "api"
	}
	return s.store.EnqueueTrigger(ctx, actor)
}
