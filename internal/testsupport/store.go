package testsupport

import (
	"context"
	"testing"

	"greenlight/internal/config"
	"greenlight/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem creates a content item for tests using the provided store.
func NewItem(t testing.TB, store *queue.Store, topic string) *queue.Item {
	t.Helper()

	item, created, err := store.CreateOrGet(context.Background(), queue.CreateRequest{Topic: topic})
	if err != nil {
		t.Fatalf("store.CreateOrGet: %v", err)
	}
	if !created {
		t.Fatalf("expected a fresh item for topic %q", topic)
	}
	return item
}
