package metrics_test

import (
	"context"
	"testing"

	"greenlight/internal/lifecycle"
	"greenlight/internal/metrics"
	"greenlight/internal/queue"
	"greenlight/internal/testsupport"
)

func floatPtr(v float64) *float64 { return &v }

func deliverScript(t *testing.T, store *queue.Store, id string, score *float64) {
	t.Helper()
	_, err := store.Transition(context.Background(), id, lifecycle.ScriptDelivered(lifecycle.ScriptPayload{
		LegacyText:      "script body",
		ComplianceScore: score,
	}), "workflow")
	if err != nil {
		t.Fatalf("deliver script: %v", err)
	}
}

func TestSnapshotEmptyQueue(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	snapshot, err := metrics.NewAggregator(store).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.TotalCount != 0 {
		t.Fatalf("total = %d, want 0", snapshot.TotalCount)
	}
	if snapshot.AverageComplianceScore != nil {
		t.Fatalf("average = %v, want nil for empty queue", *snapshot.AverageComplianceScore)
	}
	for _, status := range lifecycle.AllStatuses() {
		if count, ok := snapshot.StatusCounts[status]; !ok || count != 0 {
			t.Fatalf("status %s: count %d present %v", status, count, ok)
		}
	}
}

func TestSnapshotCountsAndAverage(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	first := testsupport.NewItem(t, store, "Topic One")
	deliverScript(t, store, first.ID, floatPtr(0.9))
	second := testsupport.NewItem(t, store, "Topic Two")
	deliverScript(t, store, second.ID, floatPtr(0.5))
	third := testsupport.NewItem(t, store, "Topic Three")
	deliverScript(t, store, third.ID, nil)
	testsupport.NewItem(t, store, "Topic Four")

	snapshot, err := metrics.NewAggregator(store).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.TotalCount != 4 {
		t.Fatalf("total = %d, want 4", snapshot.TotalCount)
	}
	if snapshot.StatusCounts[lifecycle.StatusPendingReview] != 3 {
		t.Fatalf("PENDING_REVIEW = %d, want 3", snapshot.StatusCounts[lifecycle.StatusPendingReview])
	}
	if snapshot.StatusCounts[lifecycle.StatusPendingGeneration] != 1 {
		t.Fatalf("PENDING_GENERATION = %d, want 1", snapshot.StatusCounts[lifecycle.StatusPendingGeneration])
	}
	if snapshot.ScoredCount != 2 {
		t.Fatalf("scored = %d, want 2", snapshot.ScoredCount)
	}
	if snapshot.AverageComplianceScore == nil {
		t.Fatal("expected a compliance average")
	}
	if avg := *snapshot.AverageComplianceScore; avg < 0.699 || avg > 0.701 {
		t.Fatalf("average = %v, want 0.7 (unscored item excluded)", avg)
	}
}
