package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ContentItem describes a content queue entry in a transport-friendly format.
type ContentItem struct {
	ID              string      `json:"id"`
	Topic           string      `json:"topic"`
	SourceURL       string      `json:"sourceUrl,omitempty"`
	Platform        string      `json:"platform,omitempty"`
	Language        string      `json:"language,omitempty"`
	Status          string      `json:"status"`
	Script          *ScriptView `json:"script,omitempty"`
	SocialCaption   string      `json:"socialCaption,omitempty"`
	Hashtags        []string    `json:"hashtags,omitempty"`
	TargetPlatforms []string    `json:"targetPlatforms,omitempty"`
	Citations       string      `json:"citations,omitempty"`
	VideoPath       string      `json:"videoPath,omitempty"`
	PublishedURL    string      `json:"publishedUrl,omitempty"`
	ComplianceScore *float64    `json:"complianceScore,omitempty"`
	ReviewNotes     string      `json:"reviewNotes,omitempty"`
	ReviewedBy      string      `json:"reviewedBy,omitempty"`
	ReviewedAt      string      `json:"reviewedAt,omitempty"`
	ErrorLog        string      `json:"errorLog,omitempty"`
	RetryCount      int         `json:"retryCount"`
	FailedFrom      string      `json:"failedFrom,omitempty"`
	Exhausted       bool        `json:"exhausted"`
	CreatedAt       string      `json:"createdAt,omitempty"`
	UpdatedAt       string      `json:"updatedAt,omitempty"`
}

// ScriptView carries the script content attached to an item. Either the
// structured hook/body/cta fields or the flat text form is populated.
type ScriptView struct {
	Hook string `json:"hook,omitempty"`
	Body string `json:"body,omitempty"`
	CTA  string `json:"cta,omitempty"`
	Text string `json:"text,omitempty"`
}

// AuditEntry describes one immutable status change record.
type AuditEntry struct {
	ID        int64  `json:"id"`
	AssetID   string `json:"assetId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	ChangedBy string `json:"changedBy"`
	Note      string `json:"note,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CreateItemRequest is the payload for enqueuing a new topic.
type CreateItemRequest struct {
	Topic     string `json:"topic"`
	SourceURL string `json:"sourceUrl,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Language  string `json:"language,omitempty"`
}

// TransitionRequest is the payload for requesting a status change. Exactly
// one transition form should be populated: a target with its payload, a
// retry, or an override.
type TransitionRequest struct {
	Target string `json:"target,omitempty"`
	Actor  string `json:"actor,omitempty"`
	Retry  bool   `json:"retry,omitempty"`

	Script  *ScriptRequest  `json:"script,omitempty"`
	Review  *ReviewRequest  `json:"review,omitempty"`
	Reject  *RejectRequest  `json:"reject,omitempty"`
	Render  *RenderRequest  `json:"render,omitempty"`
	Publish *PublishRequest `json:"publish,omitempty"`
	Failure *FailureRequest `json:"failure,omitempty"`

	Override bool   `json:"override,omitempty"`
	Note     string `json:"note,omitempty"`
}

// ScriptRequest carries the generated script delivered by the workflow.
type ScriptRequest struct {
	Hook            string   `json:"hook,omitempty"`
	Body            string   `json:"body,omitempty"`
	CTA             string   `json:"cta,omitempty"`
	Text            string   `json:"text,omitempty"`
	SocialCaption   string   `json:"socialCaption,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	TargetPlatforms []string `json:"targetPlatforms,omitempty"`
	Citations       string   `json:"citations,omitempty"`
	ComplianceScore *float64 `json:"complianceScore,omitempty"`
}

// ReviewRequest carries reviewer attribution for an approval.
type ReviewRequest struct {
	ReviewedBy string `json:"reviewedBy,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	ReviewedBy string `json:"reviewedBy,omitempty"`
	Reason     string `json:"reason"`
}

// RenderRequest carries the rendered asset location.
type RenderRequest struct {
	VideoPath string `json:"videoPath"`
}

// PublishRequest carries the live URL for a published item.
type PublishRequest struct {
	PublishedURL string `json:"publishedUrl"`
}

// FailureRequest carries the error reported by a failed workflow stage.
type FailureRequest struct {
	ErrorLog string `json:"errorLog"`
}

// TriggerRequest asks the daemon to nudge the orchestration runner.
type TriggerRequest struct {
	Actor string `json:"actor,omitempty"`
}

// MetricsResponse summarizes pipeline health.
type MetricsResponse struct {
	StatusCounts           map[string]int `json:"statusCounts"`
	TotalCount             int            `json:"totalCount"`
	AverageComplianceScore *float64       `json:"averageComplianceScore"`
	ScoredCount            int            `json:"scoredCount"`
}

// ItemResponse wraps a single content item.
type ItemResponse struct {
	Item ContentItem `json:"item"`
}

// ItemListResponse wraps a collection of content items.
type ItemListResponse struct {
	Items []ContentItem `json:"items"`
}

// AuditResponse wraps an item's audit trail, newest first.
type AuditResponse struct {
	Entries []AuditEntry `json:"entries"`
}

// HealthResponse reports daemon liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
