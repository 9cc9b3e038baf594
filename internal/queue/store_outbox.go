package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"greenlight/internal/lifecycle"
)

// PendingNotifications returns undelivered outbox entries that are due and
// still under the attempt cap, oldest first.
func (s *Store) PendingNotifications(ctx context.Context, now time.Time, limit, maxAttempts int) ([]OutboxEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id, event, asset_id, payload_json, attempts, last_error, next_attempt_at, delivered_at, created_at
         FROM outbox
         WHERE delivered_at IS NULL AND next_attempt_at <= ? AND attempts < ?
         ORDER BY id ASC LIMIT ?`,
		now.UTC().Format(time.RFC3339Nano),
		maxAttempts,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []OutboxEntry
	for rows.Next() {
		entry, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// MarkDelivered records a successful notification delivery.
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE outbox SET delivered_at = ?, last_error = NULL WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox delivered: %w", err)
	}
	return nil
}

// MarkFailed records a failed delivery attempt and schedules the next one.
func (s *Store) MarkFailed(ctx context.Context, id int64, deliveryErr string, nextAttempt time.Time) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE outbox SET attempts = attempts + 1, last_error = ?, next_attempt_at = ? WHERE id = ?`,
		deliveryErr,
		nextAttempt.UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	return nil
}

// EnqueueTrigger queues a pipeline trigger notification not tied to any item.
func (s *Store) EnqueueTrigger(ctx context.Context, actor string) error {
	now := time.Now().UTC()
	payload, err := json.Marshal(map[string]string{
		"event": EventPipelineTrigger,
		"actor": actor,
	})
	if err != nil {
		return fmt.Errorf("marshal trigger payload: %w", err)
	}
	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO outbox (event, payload_json, next_attempt_at, created_at) VALUES (?, ?, ?, ?)`,
		EventPipelineTrigger,
		string(payload),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("enqueue trigger: %w", err)
	}
	return nil
}

func enqueueOutboxTx(ctx context.Context, tx *sql.Tx, event string, item *Item, old, target lifecycle.Status, actor string, now time.Time) error {
	if event == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"event":      event,
		"id":         item.ID,
		"topic":      item.Topic,
		"old_status": string(old),
		"new_status": string(target),
		"actor":      actor,
	})
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO outbox (event, asset_id, payload_json, next_attempt_at, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		event,
		item.ID,
		string(payload),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func scanOutbox(scanner interface{ Scan(dest ...any) error }) (*OutboxEntry, error) {
	var (
		entry       OutboxEntry
		payload     sql.NullString
		lastError   sql.NullString
		nextAttempt string
		delivered   sql.NullString
		created     string
	)
	if err := scanner.Scan(&entry.ID, &entry.Event, &entry.AssetID, &payload, &entry.Attempts, &lastError, &nextAttempt, &delivered, &created); err != nil {
		return nil, fmt.Errorf("scan outbox entry: %w", err)
	}
	entry.Payload = payload.String
	entry.LastError = lastError.String
	if parsed, err := parseTimeString(nextAttempt); err == nil {
		entry.NextAttemptAt = parsed
	}
	if delivered.Valid {
		if parsed, err := parseTimeString(delivered.String); err == nil {
			entry.DeliveredAt = &parsed
		}
	}
	if parsed, err := parseTimeString(created); err == nil {
		entry.CreatedAt = parsed
	}
	return &entry, nil
}
