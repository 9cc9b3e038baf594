package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"greenlight/internal/lifecycle"
)

const itemColumns = "id, topic, source_url, platform, language, status, " +
	"script_hook, script_body, script_cta, script_text, social_caption, " +
	"hashtags_json, target_platforms_json, citations, video_path, published_url, " +
	"compliance_score, review_notes, reviewed_by, reviewed_at, error_log, " +
	"retry_count, failed_from, exhausted, created_at, updated_at"

// CreateOrGet applies the idempotency guard: when an item with the same topic
// is already in flight (or finished without exhausting its retries), that
// item is returned and nothing is created. The boolean reports whether a new
// item was inserted. Concurrent creations for one fresh topic are serialized
// by the partial unique index on topic; the loser is handed the winner's row.
func (s *Store) CreateOrGet(ctx context.Context, req CreateRequest) (*Item, bool, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, false, fmt.Errorf("%w: topic is required", ErrValidation)
	}

	var (
		item    *Item
		created bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := findActiveByTopicTx(ctx, tx, topic)
		if err != nil {
			return err
		}
		if existing != nil {
			item = existing
			created = false
			return nil
		}

		now := time.Now().UTC()
		fresh := &Item{
			ID:        uuid.NewString(),
			Topic:     topic,
			SourceURL: strings.TrimSpace(req.SourceURL),
			Platform:  strings.TrimSpace(req.Platform),
			Language:  normalizeLanguage(req.Language),
			Status:    lifecycle.StatusPendingGeneration,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := insertItemTx(ctx, tx, fresh); err != nil {
			return err
		}
		if err := enqueueOutboxTx(ctx, tx, EventGenerationRequested, fresh, "", fresh.Status, s.defaultActor, now); err != nil {
			return err
		}
		item = fresh
		created = true
		return nil
	})
	if err != nil {
		if isConstraintErr(err) {
			// Lost the creation race; surface the winner's row.
			winner, lookupErr := s.FindActiveByTopic(ctx, topic)
			if lookupErr == nil && winner != nil {
				return winner, false, nil
			}
			return nil, false, fmt.Errorf("%w: concurrent creation for topic %q", ErrConflict, topic)
		}
		return nil, false, err
	}
	return item, created, nil
}

// GetByID fetches a content item by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM content_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindActiveByTopic returns the non-exhausted item for a topic, if any.
func (s *Store) FindActiveByTopic(ctx context.Context, topic string) (*Item, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM content_items WHERE topic = ? AND exhausted = 0 LIMIT 1`,
		strings.TrimSpace(topic),
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by topic: %w", err)
	}
	return item, nil
}

// List returns content items newest-first, narrowed by the filter.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM content_items`
	var (
		clauses []string
		args    []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := makePlaceholders(len(filter.Statuses))
		clauses = append(clauses, `status IN (`+placeholders+`)`)
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if platform := strings.TrimSpace(filter.Platform); platform != "" {
		clauses = append(clauses, `platform = ?`)
		args = append(args, platform)
	}
	if filter.ExhaustedOnly {
		clauses = append(clauses, `exhausted = 1`)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func findActiveByTopicTx(ctx context.Context, tx *sql.Tx, topic string) (*Item, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM content_items WHERE topic = ? AND exhausted = 0 LIMIT 1`, topic)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by topic: %w", err)
	}
	return item, nil
}

func getByIDTx(ctx context.Context, tx *sql.Tx, id string) (*Item, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM content_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func insertItemTx(ctx context.Context, tx *sql.Tx, item *Item) error {
	hashtags, platforms, err := marshalStringLists(item)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO content_items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Topic,
		nullableString(item.SourceURL),
		nullableString(item.Platform),
		nullableString(item.Language),
		item.Status,
		nullableString(item.ScriptHook),
		nullableString(item.ScriptBody),
		nullableString(item.ScriptCTA),
		nullableString(item.ScriptText),
		nullableString(item.SocialCaption),
		hashtags,
		platforms,
		nullableString(item.Citations),
		nullableString(item.VideoPath),
		nullableString(item.PublishedURL),
		nullableFloat(item.ComplianceScore),
		nullableString(item.ReviewNotes),
		nullableString(item.ReviewedBy),
		nullableTime(item.ReviewedAt),
		nullableString(item.ErrorLog),
		item.RetryCount,
		nullableString(string(item.FailedFrom)),
		boolToInt(item.Exhausted),
		item.CreatedAt.Format(time.RFC3339Nano),
		item.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert content item: %w", err)
	}
	return nil
}

func updateItemTx(ctx context.Context, tx *sql.Tx, item *Item) error {
	hashtags, platforms, err := marshalStringLists(item)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(
		ctx,
		`UPDATE content_items
         SET status = ?, script_hook = ?, script_body = ?, script_cta = ?,
             script_text = ?, social_caption = ?, hashtags_json = ?,
             target_platforms_json = ?, citations = ?, video_path = ?,
             published_url = ?, compliance_score = ?, review_notes = ?,
             reviewed_by = ?, reviewed_at = ?, error_log = ?, retry_count = ?,
             failed_from = ?, exhausted = ?, updated_at = ?
         WHERE id = ?`,
		item.Status,
		nullableString(item.ScriptHook),
		nullableString(item.ScriptBody),
		nullableString(item.ScriptCTA),
		nullableString(item.ScriptText),
		nullableString(item.SocialCaption),
		hashtags,
		platforms,
		nullableString(item.Citations),
		nullableString(item.VideoPath),
		nullableString(item.PublishedURL),
		nullableFloat(item.ComplianceScore),
		nullableString(item.ReviewNotes),
		nullableString(item.ReviewedBy),
		nullableTime(item.ReviewedAt),
		nullableString(item.ErrorLog),
		item.RetryCount,
		nullableString(string(item.FailedFrom)),
		boolToInt(item.Exhausted),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update content item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: content item %s", ErrNotFound, item.ID)
	}
	return nil
}

func marshalStringLists(item *Item) (any, any, error) {
	var hashtags, platforms any
	if len(item.Hashtags) > 0 {
		data, err := json.Marshal(item.Hashtags)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal hashtags: %w", err)
		}
		hashtags = string(data)
	}
	if len(item.TargetPlatforms) > 0 {
		data, err := json.Marshal(item.TargetPlatforms)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal target platforms: %w", err)
		}
		platforms = string(data)
	}
	return hashtags, platforms, nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id            string
		topic         string
		sourceURL     sql.NullString
		platform      sql.NullString
		languageStr   sql.NullString
		statusStr     string
		scriptHook    sql.NullString
		scriptBody    sql.NullString
		scriptCTA     sql.NullString
		scriptText    sql.NullString
		socialCaption sql.NullString
		hashtagsJSON  sql.NullString
		platformsJSON sql.NullString
		citations     sql.NullString
		videoPath     sql.NullString
		publishedURL  sql.NullString
		compliance    sql.NullFloat64
		reviewNotes   sql.NullString
		reviewedBy    sql.NullString
		reviewedRaw   sql.NullString
		errorLog      sql.NullString
		retryCount    int
		failedFrom    sql.NullString
		exhausted     sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&topic,
		&sourceURL,
		&platform,
		&languageStr,
		&statusStr,
		&scriptHook,
		&scriptBody,
		&scriptCTA,
		&scriptText,
		&socialCaption,
		&hashtagsJSON,
		&platformsJSON,
		&citations,
		&videoPath,
		&publishedURL,
		&compliance,
		&reviewNotes,
		&reviewedBy,
		&reviewedRaw,
		&errorLog,
		&retryCount,
		&failedFrom,
		&exhausted,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:            id,
		Topic:         topic,
		SourceURL:     sourceURL.String,
		Platform:      platform.String,
		Language:      languageStr.String,
		Status:        lifecycle.Status(statusStr),
		ScriptHook:    scriptHook.String,
		ScriptBody:    scriptBody.String,
		ScriptCTA:     scriptCTA.String,
		ScriptText:    scriptText.String,
		SocialCaption: socialCaption.String,
		Citations:     citations.String,
		VideoPath:     videoPath.String,
		PublishedURL:  publishedURL.String,
		ReviewNotes:   reviewNotes.String,
		ReviewedBy:    reviewedBy.String,
		ErrorLog:      errorLog.String,
		RetryCount:    retryCount,
		FailedFrom:    lifecycle.Status(failedFrom.String),
	}
	if compliance.Valid {
		score := compliance.Float64
		item.ComplianceScore = &score
	}
	if exhausted.Valid {
		item.Exhausted = exhausted.Int64 != 0
	}
	if hashtagsJSON.Valid && hashtagsJSON.String != "" {
		if err := json.Unmarshal([]byte(hashtagsJSON.String), &item.Hashtags); err != nil {
			return nil, fmt.Errorf("unmarshal hashtags: %w", err)
		}
	}
	if platformsJSON.Valid && platformsJSON.String != "" {
		if err := json.Unmarshal([]byte(platformsJSON.String), &item.TargetPlatforms); err != nil {
			return nil, fmt.Errorf("unmarshal target platforms: %w", err)
		}
	}
	if reviewedRaw.Valid {
		if reviewed, err := parseTimeString(reviewedRaw.String); err == nil {
			item.ReviewedAt = &reviewed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

// normalizeLanguage canonicalizes BCP-47 language tags ("EN-us" -> "en-US").
// Unknown values are kept verbatim so creation never fails on metadata.
func normalizeLanguage(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	return tag.String()
}
