package daemon_test

import (
	"context"
	"testing"

	"greenlight/internal/config"
	"greenlight/internal/daemon"
	"greenlight/internal/dispatch"
	"greenlight/internal/logging"
	"greenlight/internal/queue"
	"greenlight/internal/testsupport"
)

func newTestDaemon(t *testing.T, cfg *config.Config, store *queue.Store) *daemon.Daemon {
	t.Helper()

	d, err := daemon.New(cfg, store, dispatch.New(cfg, store, dispatch.NewNotifier(cfg), logging.NewNop()), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
	})
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d := newTestDaemon(t, cfg, store)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon should report running")
	}
	if d.APIAddr() == "" {
		t.Fatal("api address should be bound")
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon should report stopped")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	first := newTestDaemon(t, cfg, store)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start first: %v", err)
	}

	second := newTestDaemon(t, cfg, store)
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second daemon should fail to acquire the lock")
	}
}
