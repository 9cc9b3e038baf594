// Package metrics aggregates pipeline health figures from the content queue.
package metrics

import (
	"context"

	"greenlight/internal/lifecycle"
)

// Source provides the raw counts the aggregator summarizes. *queue.Store
// satisfies it.
type Source interface {
	Stats(ctx context.Context) (map[lifecycle.Status]int, error)
	ComplianceAverage(ctx context.Context) (float64, int, error)
}

// Snapshot is a point-in-time view of the pipeline.
type Snapshot struct {
	StatusCounts map[lifecycle.Status]int `json:"statusCounts"`
	TotalCount   int                      `json:"totalCount"`

	// AverageComplianceScore is nil when no item carries a score; items
	// without a score never dilute the average.
	AverageComplianceScore *float64 `json:"averageComplianceScore"`
	ScoredCount            int      `json:"scoredCount"`
}

// Aggregator computes snapshots from a queue source.
type Aggregator struct {
	source Source
}

// NewAggregator builds an aggregator over the given source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Snapshot reads current counts and the compliance average. Every known
// status appears in the result, zero-valued when the queue holds no items in
// it.
func (a *Aggregator) Snapshot(ctx context.Context) (*Snapshot, error) {
	counts, err := a.source.Stats(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{StatusCounts: make(map[lifecycle.Status]int, len(lifecycle.AllStatuses()))}
	for _, status := range lifecycle.AllStatuses() {
		snapshot.StatusCounts[status] = counts[status]
		snapshot.TotalCount += counts[status]
	}

	avg, scored, err := a.source.ComplianceAverage(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.ScoredCount = scored
	if scored > 0 {
		snapshot.AverageComplianceScore = &avg
	}
	return snapshot, nil
}
