package queue

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"greenlight/internal/lifecycle"
)

// Transition applies a lifecycle transition to an item. Validation, the status
// update, the audit entry, and the outbox notification all happen in one
// transaction: either every effect lands or none do. Refused transitions
// leave the row untouched and are returned wrapped in ErrValidation.
func (s *Store) Transition(ctx context.Context, id string, tr lifecycle.Transition, actor string) (*Item, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = s.defaultActor
	}

	var result *Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: content item %s", ErrNotFound, id)
		}

		target, err := tr.Validate(item.Status, item.FailedFrom, item.RetryCount, s.policy)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}

		oldStatus := item.Status
		now := time.Now().UTC()
		applyTransition(item, tr, target, actor, now, s.policy)

		if err := updateItemTx(ctx, tx, item); err != nil {
			return err
		}
		note := auditNote(tr, oldStatus, target)
		if err := insertAuditTx(ctx, tx, item.ID, oldStatus, target, actor, note, now); err != nil {
			return err
		}
		if err := enqueueOutboxTx(ctx, tx, eventForStatus(target), item, oldStatus, target, actor, now); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Override forces an item to an arbitrary status outside the transition
// table. It requires a note explaining the intervention and is audited like
// any other change. Reactivating a terminal item resets its retry state; the
// idempotency index still refuses the move when the topic already has another
// active item.
func (s *Store) Override(ctx context.Context, id string, target lifecycle.Status, actor, note string) (*Item, error) {
	if _, ok := lifecycle.ParseStatus(string(target)); !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("%w: override requires a note", ErrValidation)
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = s.defaultActor
	}

	var result *Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		item, err := getByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: content item %s", ErrNotFound, id)
		}
		if item.Status == target {
			return fmt.Errorf("%w: item already in status %s", ErrValidation, target)
		}

		oldStatus := item.Status
		now := time.Now().UTC()
		item.Status = target
		item.UpdatedAt = now
		if lifecycle.IsActiveStage(target) {
			item.RetryCount = 0
			item.FailedFrom = ""
			item.Exhausted = false
			item.ErrorLog = ""
		}
		if target == lifecycle.StatusError {
			item.Exhausted = s.policy.Exhausted(item.RetryCount)
		}

		if err := updateItemTx(ctx, tx, item); err != nil {
			return err
		}
		if err := insertAuditTx(ctx, tx, item.ID, oldStatus, target, actor, "manual override: "+note, now); err != nil {
			return err
		}
		if err := enqueueOutboxTx(ctx, tx, eventForStatus(target), item, oldStatus, target, actor, now); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		if isConstraintErr(err) {
			return nil, fmt.Errorf("%w: topic already has an active item", ErrConflict)
		}
		return nil, err
	}
	return result, nil
}

// applyTransition folds the transition payload into the item. Validate has
// already guaranteed the payload matches the target.
func applyTransition(item *Item, tr lifecycle.Transition, target lifecycle.Status, actor string, now time.Time, policy lifecycle.RetryPolicy) {
	oldStatus := item.Status
	item.Status = target
	item.UpdatedAt = now

	switch {
	case tr.Retry:
		item.ErrorLog = ""
		item.FailedFrom = ""
	case tr.Script != nil:
		item.ScriptHook = strings.TrimSpace(tr.Script.Hook)
		item.ScriptBody = strings.TrimSpace(tr.Script.Body)
		item.ScriptCTA = strings.TrimSpace(tr.Script.CTA)
		item.ScriptText = strings.TrimSpace(tr.Script.LegacyText)
		item.SocialCaption = strings.TrimSpace(tr.Script.SocialCaption)
		if len(tr.Script.Hashtags) > 0 {
			item.Hashtags = tr.Script.Hashtags
		}
		if len(tr.Script.TargetPlatforms) > 0 {
			item.TargetPlatforms = tr.Script.TargetPlatforms
		}
		if tr.Script.Citations != "" {
			item.Citations = tr.Script.Citations
		}
		item.ComplianceScore = tr.Script.ComplianceScore
	case tr.Review != nil:
		reviewer := strings.TrimSpace(tr.Review.ReviewedBy)
		if reviewer == "" {
			reviewer = actor
		}
		item.ReviewedBy = reviewer
		reviewed := now
		item.ReviewedAt = &reviewed
		item.ReviewNotes = strings.TrimSpace(tr.Review.Notes)
	case tr.Reject != nil:
		reviewer := strings.TrimSpace(tr.Reject.ReviewedBy)
		if reviewer == "" {
			reviewer = actor
		}
		item.ReviewedBy = reviewer
		reviewed := now
		item.ReviewedAt = &reviewed
		item.ReviewNotes = strings.TrimSpace(tr.Reject.Reason)
	case tr.Render != nil:
		item.VideoPath = strings.TrimSpace(tr.Render.VideoPath)
	case tr.Publish != nil:
		item.PublishedURL = strings.TrimSpace(tr.Publish.PublishedURL)
	case tr.Failure != nil:
		item.ErrorLog = strings.TrimSpace(tr.Failure.ErrorLog)
		item.RetryCount++
		item.FailedFrom = oldStatus
	}

	if target == lifecycle.StatusError {
		item.Exhausted = policy.Exhausted(item.RetryCount)
	}
}

func auditNote(tr lifecycle.Transition, old, target lifecycle.Status) string {
	switch {
	case tr.Reject != nil:
		return strings.TrimSpace(tr.Reject.Reason)
	case tr.Failure != nil:
		return strings.TrimSpace(tr.Failure.ErrorLog)
	case tr.Retry:
		return fmt.Sprintf("retry requested, resuming at %s", target)
	default:
		return fmt.Sprintf("Status changed from %s to %s", old, target)
	}
}
