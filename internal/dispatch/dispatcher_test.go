package dispatch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"greenlight/internal/dispatch"
	"greenlight/internal/lifecycle"
	"greenlight/internal/logging"
	"greenlight/internal/queue"
	"greenlight/internal/testsupport"
)

func TestDrainDeliversPendingNotifications(t *testing.T) {
	var (
		mu       sync.Mutex
		received []map[string]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode webhook payload: %v", err)
		}
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewItem(t, store, "Dispatch Topic")

	if _, err := store.Transition(context.Background(), item.ID, lifecycle.ScriptDelivered(lifecycle.ScriptPayload{
		LegacyText: "full script text",
	}), "workflow"); err != nil {
		t.Fatalf("transition: %v", err)
	}

	d := dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logging.NewNop())
	d.Drain(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 webhook calls (creation, transition), got %d", len(received))
	}
	if received[0]["event"] != queue.EventGenerationRequested {
		t.Fatalf("first event = %q", received[0]["event"])
	}
	if received[1]["event"] != queue.EventReviewRequested {
		t.Fatalf("second event = %q", received[1]["event"])
	}
	if received[1]["id"] != item.ID {
		t.Fatalf("payload id = %q, want %q", received[1]["id"], item.ID)
	}

	pending, err := store.PendingNotifications(context.Background(), time.Now().Add(time.Second), 50, 8)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after drain, got %d entries", len(pending))
	}
}

func TestDrainSchedulesRetryOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "runner unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewItem(t, store, "Failing Dispatch")

	d := dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logging.NewNop())
	d.Drain(context.Background())

	// The entry is not due again until its backoff elapses.
	due, err := store.PendingNotifications(context.Background(), time.Now(), 50, 8)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("failed entry should be deferred, got %d due", len(due))
	}

	later, err := store.PendingNotifications(context.Background(), time.Now().Add(time.Hour), 50, 8)
	if err != nil {
		t.Fatalf("PendingNotifications later: %v", err)
	}
	if len(later) != 1 {
		t.Fatalf("expected 1 deferred entry, got %d", len(later))
	}
	if later[0].Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", later[0].Attempts)
	}
	if later[0].LastError == "" {
		t.Fatal("expected last_error to be recorded")
	}
}

func TestDrainRespectsAttemptCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still down", http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWebhook(server.URL))
	cfg.Orchestrator.MaxAttempts = 2
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewItem(t, store, "Capped Dispatch")

	d := dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logging.NewNop())
	ctx := context.Background()

	// Each drain sees the entry only once its backoff elapsed; force it by
	// marking the next attempt due immediately between passes.
	d.Drain(ctx)
	due, err := store.PendingNotifications(ctx, time.Now().Add(time.Hour), 50, 2)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 entry under cap, got %d", len(due))
	}
	if err := store.MarkFailed(ctx, due[0].ID, "forced", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	exhausted, err := store.PendingNotifications(ctx, time.Now().Add(time.Hour), 50, 2)
	if err != nil {
		t.Fatalf("PendingNotifications after cap: %v", err)
	}
	if len(exhausted) != 0 {
		t.Fatalf("entry past the attempt cap should not be returned, got %d", len(exhausted))
	}
}

func TestNoopNotifierWithoutWebhook(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewItem(t, store, "Quiet Topic")

	d := dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logging.NewNop())
	d.Drain(context.Background())

	pending, err := store.PendingNotifications(context.Background(), time.Now().Add(time.Second), 50, 8)
	if err != nil {
		t.Fatalf("PendingNotifications: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("noop notifier should still mark entries delivered, got %d pending", len(pending))
	}
}
