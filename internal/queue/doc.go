// Package queue manages durable content item persistence backed by SQLite.
//
// It owns the three tables that make the orchestration core correct: content
// items (guarded by a partial unique index on topic for idempotent creation),
// the append-only audit log (exactly one entry per accepted transition,
// written in the same transaction as the status change), and the notification
// outbox consumed by the dispatcher.
package queue
