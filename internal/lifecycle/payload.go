package lifecycle

import (
	"fmt"
	"strings"
)

// MinRejectReasonLength is the minimum trimmed length of a rejection reason.
const MinRejectReasonLength = 10

// ScriptPayload carries the generated script delivered by the generation
// workflow. Either the structured hook/body/cta form or the legacy flat text
// form must be present.
type ScriptPayload struct {
	Hook            string
	Body            string
	CTA             string
	LegacyText      string
	SocialCaption   string
	Hashtags        []string
	TargetPlatforms []string
	Citations       string
	ComplianceScore *float64
}

// ReviewPayload carries reviewer attribution for a script approval.
type ReviewPayload struct {
	ReviewedBy string
	Notes      string
}

// RejectPayload carries the mandatory rejection reason.
type RejectPayload struct {
	ReviewedBy string
	Reason     string
}

// RenderPayload carries the rendered asset location.
type RenderPayload struct {
	VideoPath string
}

// PublishPayload carries the live URL confirmed by the publish workflow.
type PublishPayload struct {
	PublishedURL string
}

// FailurePayload carries the error reported by a failed stage.
type FailurePayload struct {
	ErrorLog string
}

// Transition describes one requested status change together with the payload
// fields that transition legitimately carries. Construct values through the
// functions below; the zero value is not a valid transition.
type Transition struct {
	Target Status
	Retry  bool

	Script  *ScriptPayload
	Review  *ReviewPayload
	Reject  *RejectPayload
	Render  *RenderPayload
	Publish *PublishPayload
	Failure *FailurePayload
}

// ScriptDelivered moves an item from generation into human review.
func ScriptDelivered(p ScriptPayload) Transition {
	return Transition{Target: StatusPendingReview, Script: &p}
}

// Approve records a reviewer's approval and queues the item for rendering.
func Approve(reviewedBy, notes string) Transition {
	return Transition{Target: StatusPendingRender, Review: &ReviewPayload{ReviewedBy: reviewedBy, Notes: notes}}
}

// RejectContent archives an item with a rejection reason.
func RejectContent(reviewedBy, reason string) Transition {
	return Transition{Target: StatusRejected, Reject: &RejectPayload{ReviewedBy: reviewedBy, Reason: reason}}
}

// RenderComplete records the playable asset produced by the render workflow.
func RenderComplete(videoPath string) Transition {
	return Transition{Target: StatusApproved, Render: &RenderPayload{VideoPath: videoPath}}
}

// PublishComplete records that the asset went live.
func PublishComplete(publishedURL string) Transition {
	return Transition{Target: StatusPublished, Publish: &PublishPayload{PublishedURL: publishedURL}}
}

// Fail reports a stage failure. The queue layer increments the retry count
// and records the stage the item failed from.
func Fail(errorLog string) Transition {
	return Transition{Target: StatusError, Failure: &FailurePayload{ErrorLog: errorLog}}
}

// RetryFailed re-attempts the stage recorded when the item entered ERROR.
// The target is resolved against the item at validation time.
func RetryFailed() Transition {
	return Transition{Retry: true}
}

func (t Transition) validatePayload() error {
	switch t.Target {
	case StatusPendingReview:
		if t.Script == nil {
			return fmt.Errorf("%w: script payload required to enter %s", ErrRefused, StatusPendingReview)
		}
		if !t.Script.hasContent() {
			return fmt.Errorf("%w: script payload is empty", ErrRefused)
		}
		if score := t.Script.ComplianceScore; score != nil && (*score < 0 || *score > 1) {
			return fmt.Errorf("%w: compliance score %v outside [0,1]", ErrRefused, *score)
		}
	case StatusRejected:
		if t.Reject == nil {
			return fmt.Errorf("%w: rejection payload required to enter %s", ErrRefused, StatusRejected)
		}
		if len(strings.TrimSpace(t.Reject.Reason)) < MinRejectReasonLength {
			return fmt.Errorf("%w: rejection reason must be at least %d characters", ErrRefused, MinRejectReasonLength)
		}
	case StatusApproved:
		if t.Render == nil || strings.TrimSpace(t.Render.VideoPath) == "" {
			return fmt.Errorf("%w: render payload with a video path required to enter %s", ErrRefused, StatusApproved)
		}
	case StatusPublished:
		if t.Publish == nil || strings.TrimSpace(t.Publish.PublishedURL) == "" {
			return fmt.Errorf("%w: publish payload with a live URL required to enter %s", ErrRefused, StatusPublished)
		}
	case StatusError:
		if t.Failure == nil || strings.TrimSpace(t.Failure.ErrorLog) == "" {
			return fmt.Errorf("%w: failure payload with an error log required to enter %s", ErrRefused, StatusError)
		}
	}
	return nil
}

func (p *ScriptPayload) hasContent() bool {
	structured := strings.TrimSpace(p.Hook) != "" || strings.TrimSpace(p.Body) != "" || strings.TrimSpace(p.CTA) != ""
	return structured || strings.TrimSpace(p.LegacyText) != ""
}
