package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"greenlight/internal/lifecycle"
)

// AuditFor returns the audit trail for one item, newest first.
func (s *Store) AuditFor(ctx context.Context, assetID string) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id, asset_id, old_status, new_status, changed_by, note, timestamp
         FROM audit_log WHERE asset_id = ?
         ORDER BY timestamp DESC, id DESC`,
		assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			entry     AuditEntry
			oldStatus string
			newStatus string
			note      sql.NullString
			ts        string
		)
		if err := rows.Scan(&entry.ID, &entry.AssetID, &oldStatus, &newStatus, &entry.ChangedBy, &note, &ts); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.OldStatus = lifecycle.Status(oldStatus)
		entry.NewStatus = lifecycle.Status(newStatus)
		entry.Note = note.String
		if parsed, err := parseTimeString(ts); err == nil {
			entry.Timestamp = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func insertAuditTx(ctx context.Context, tx *sql.Tx, assetID string, old, target lifecycle.Status, actor, note string, now time.Time) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO audit_log (asset_id, old_status, new_status, changed_by, note, timestamp)
         VALUES (?, ?, ?, ?, ?, ?)`,
		assetID,
		string(old),
		string(target),
		actor,
		nullableString(note),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
