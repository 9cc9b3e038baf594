package queue

import (
	"context"
	"database/sql"
	"fmt"

	"greenlight/internal/lifecycle"
)

// Stats returns the number of items in each status. Statuses with no items
// are absent from the map.
func (s *Store) Stats(ctx context.Context) (map[lifecycle.Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM content_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[lifecycle.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[lifecycle.Status(status)] = count
	}
	return counts, rows.Err()
}

// ComplianceAverage returns the mean compliance score across items that have
// one, and how many items were scored. Items without a score do not count.
func (s *Store) ComplianceAverage(ctx context.Context) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT AVG(compliance_score), COUNT(compliance_score)
         FROM content_items WHERE compliance_score IS NOT NULL`,
	)
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("scan compliance average: %w", err)
	}
	if !avg.Valid {
		return 0, 0, nil
	}
	return avg.Float64, count, nil
}
