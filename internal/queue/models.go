package queue

import (
	"time"

	"greenlight/internal/lifecycle"
)

// Item represents a content item persisted in SQLite.
type Item struct {
	ID              string
	Topic           string
	SourceURL       string
	Platform        string
	Language        string
	Status          lifecycle.Status
	ScriptHook      string
	ScriptBody      string
	ScriptCTA       string
	ScriptText      string
	SocialCaption   string
	Hashtags        []string
	TargetPlatforms []string
	Citations       string
	VideoPath       string
	PublishedURL    string
	ComplianceScore *float64
	ReviewNotes     string
	ReviewedBy      string
	ReviewedAt      *time.Time
	ErrorLog        string
	RetryCount      int
	FailedFrom      lifecycle.Status
	Exhausted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasStructuredScript reports whether the item carries the hook/body/cta form
// rather than the legacy flat script text.
func (i *Item) HasStructuredScript() bool {
	return i.ScriptHook != "" || i.ScriptBody != "" || i.ScriptCTA != ""
}

// AuditEntry is one immutable record of an accepted status transition.
type AuditEntry struct {
	ID        int64
	AssetID   string
	OldStatus lifecycle.Status
	NewStatus lifecycle.Status
	ChangedBy string
	Note      string
	Timestamp time.Time
}

// OutboxEntry is a pending or delivered workflow notification recorded in the
// same transaction as the state change that produced it.
type OutboxEntry struct {
	ID            int64
	Event         string
	AssetID       string
	Payload       string
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
}

// CreateRequest carries the creation-time metadata for a content item.
type CreateRequest struct {
	Topic     string
	SourceURL string
	Platform  string
	Language  string
}

// ListFilter narrows List results. A zero filter returns every item.
type ListFilter struct {
	Statuses      []lifecycle.Status
	Platform      string
	Limit         int
	ExhaustedOnly bool
}

// Outbox event names sent to the external workflow runner.
const (
	EventGenerationRequested = "generation.requested"
	EventReviewRequested     = "review.requested"
	EventRenderRequested     = "render.requested"
	EventPublishRequested    = "publish.requested"
	EventContentPublished    = "content.published"
	EventContentRejected     = "content.rejected"
	EventContentFailed       = "content.failed"
	EventPipelineTrigger     = "pipeline.trigger"
)

// eventForStatus maps a committed target status to the notification the
// external runner receives. Every accepted transition dispatches exactly one.
func eventForStatus(target lifecycle.Status) string {
	switch target {
	case lifecycle.StatusPendingGeneration:
		return EventGenerationRequested
	case lifecycle.StatusPendingReview:
		return EventReviewRequested
	case lifecycle.StatusPendingRender:
		return EventRenderRequested
	case lifecycle.StatusApproved:
		return EventPublishRequested
	case lifecycle.StatusPublished:
		return EventContentPublished
	case lifecycle.StatusRejected:
		return EventContentRejected
	case lifecycle.StatusError:
		return EventContentFailed
	default:
		return ""
	}
}
