package dispatch

import (
	"context"
	"log/slog"
	"time"

	"greenlight/internal/config"
	"greenlight/internal/logging"
	"greenlight/internal/queue"
)

const (
	defaultInterval    = 5 * time.Second
	defaultMaxAttempts = 8
	defaultMaxBackoff  = 5 * time.Minute
	baseBackoff        = 2 * time.Second
	drainBatchSize     = 50
)

// Outbox is the subset of queue.Store the dispatcher drains.
type Outbox interface {
	PendingNotifications(ctx context.Context, now time.Time, limit, maxAttempts int) ([]queue.OutboxEntry, error)
	MarkDelivered(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, deliveryErr string, nextAttempt time.Time) error
}

// Dispatcher polls the outbox and pushes due notifications to the runner.
type Dispatcher struct {
	outbox      Outbox
	notifier    Notifier
	logger      *slog.Logger
	interval    time.Duration
	maxAttempts int
	maxBackoff  time.Duration
}

// New constructs a dispatcher with delivery policy taken from configuration.
func New(cfg *config.Config, outbox Outbox, notifier Notifier, logger *slog.Logger) *Dispatcher {
	interval := time.Duration(cfg.Orchestrator.DispatchInterval) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}
	maxAttempts := cfg.Orchestrator.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	maxBackoff := time.Duration(cfg.Orchestrator.MaxBackoff) * time.Second
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	return &Dispatcher{
		outbox:      outbox,
		notifier:    notifier,
		logger:      logging.WithComponent(logger, "dispatch"),
		interval:    interval,
		maxAttempts: maxAttempts,
		maxBackoff:  maxBackoff,
	}
}

// Run drains the outbox on an interval until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.Drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Drain(ctx)
		}
	}
}

// Drain delivers every due notification once. Failures are recorded with a
// backoff schedule and retried on a later pass; nothing blocks the loop.
func (d *Dispatcher) Drain(ctx context.Context) {
	now := time.Now().UTC()
	entries, err := d.outbox.PendingNotifications(ctx, now, drainBatchSize, d.maxAttempts)
	if err != nil {
		d.logger.Error("query pending notifications", "error", err)
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if err := d.notifier.Notify(ctx, entry); err != nil {
			next := now.Add(d.backoff(entry.Attempts))
			d.logger.Warn("notification delivery failed",
				logging.FieldEvent, entry.Event,
				logging.FieldItemID, entry.AssetID,
				"attempts", entry.Attempts+1,
				"next_attempt", next,
				"error", err)
			if markErr := d.outbox.MarkFailed(ctx, entry.ID, err.Error(), next); markErr != nil {
				d.logger.Error("record delivery failure", "error", markErr)
			}
			continue
		}
		if err := d.outbox.MarkDelivered(ctx, entry.ID); err != nil {
			d.logger.Error("record delivery", "error", err)
			continue
		}
		d.logger.Info("notification delivered",
			logging.FieldEvent, entry.Event,
			logging.FieldItemID, entry.AssetID)
	}
}

// backoff doubles per completed attempt, capped at the configured maximum.
func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := baseBackoff
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= d.maxBackoff {
			return d.maxBackoff
		}
	}
	return delay
}
