package api

import (
	"fmt"

	"greenlight/internal/lifecycle"
	"greenlight/internal/metrics"
	"greenlight/internal/queue"
)

// FromItem converts a queue record to its API representation.
func FromItem(item *queue.Item) ContentItem {
	if item == nil {
		return ContentItem{}
	}

	dto := ContentItem{
		ID:              item.ID,
		Topic:           item.Topic,
		SourceURL:       item.SourceURL,
		Platform:        item.Platform,
		Language:        item.Language,
		Status:          string(item.Status),
		SocialCaption:   item.SocialCaption,
		Hashtags:        item.Hashtags,
		TargetPlatforms: item.TargetPlatforms,
		Citations:       item.Citations,
		VideoPath:       item.VideoPath,
		PublishedURL:    item.PublishedURL,
		ComplianceScore: item.ComplianceScore,
		ReviewNotes:     item.ReviewNotes,
		ReviewedBy:      item.ReviewedBy,
		ErrorLog:        item.ErrorLog,
		RetryCount:      item.RetryCount,
		FailedFrom:      string(item.FailedFrom),
		Exhausted:       item.Exhausted,
	}
	if item.HasStructuredScript() || item.ScriptText != "" {
		dto.Script = &ScriptView{
			Hook: item.ScriptHook,
			Body: item.ScriptBody,
			CTA:  item.ScriptCTA,
			Text: item.ScriptText,
		}
	}
	if item.ReviewedAt != nil {
		dto.ReviewedAt = item.ReviewedAt.UTC().Format(dateTimeFormat)
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromItems converts a slice of queue records into API DTOs.
func FromItems(items []*queue.Item) []ContentItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]ContentItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromAuditEntries converts audit records into API DTOs.
func FromAuditEntries(entries []queue.AuditEntry) []AuditEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]AuditEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, AuditEntry{
			ID:        entry.ID,
			AssetID:   entry.AssetID,
			OldStatus: string(entry.OldStatus),
			NewStatus: string(entry.NewStatus),
			ChangedBy: entry.ChangedBy,
			Note:      entry.Note,
			Timestamp: entry.Timestamp.UTC().Format(dateTimeFormat),
		})
	}
	return out
}

// FromSnapshot converts a metrics snapshot into the API payload.
func FromSnapshot(snapshot *metrics.Snapshot) MetricsResponse {
	resp := MetricsResponse{
		StatusCounts: make(map[string]int, len(snapshot.StatusCounts)),
		TotalCount:   snapshot.TotalCount,
		ScoredCount:  snapshot.ScoredCount,
	}
	for status, count := range snapshot.StatusCounts {
		resp.StatusCounts[string(status)] = count
	}
	resp.AverageComplianceScore = snapshot.AverageComplianceScore
	return resp
}

// toTransition maps a transport request onto a lifecycle transition. Override
// requests are handled separately by the service.
func toTransition(req TransitionRequest) (lifecycle.Transition, error) {
	if req.Retry {
		return lifecycle.RetryFailed(), nil
	}

	target, ok := lifecycle.ParseStatus(req.Target)
	if !ok {
		return lifecycle.Transition{}, fmt.Errorf("unknown target status %q", req.Target)
	}

	tr := lifecycle.Transition{Target: target}
	switch {
	case req.Script != nil:
		tr.Script = &lifecycle.ScriptPayload{
			Hook:            req.Script.Hook,
			Body:            req.Script.Body,
			CTA:             req.Script.CTA,
			LegacyText:      req.Script.Text,
			SocialCaption:   req.Script.SocialCaption,
			Hashtags:        req.Script.Hashtags,
			TargetPlatforms: req.Script.TargetPlatforms,
			Citations:       req.Script.Citations,
			ComplianceScore: req.Script.ComplianceScore,
		}
	case req.Reject != nil:
		tr.Reject = &lifecycle.RejectPayload{ReviewedBy: req.Reject.ReviewedBy, Reason: req.Reject.Reason}
	case req.Review != nil:
		tr.Review = &lifecycle.ReviewPayload{ReviewedBy: req.Review.ReviewedBy, Notes: req.Review.Notes}
	case req.Render != nil:
		tr.Render = &lifecycle.RenderPayload{VideoPath: req.Render.VideoPath}
	case req.Publish != nil:
		tr.Publish = &lifecycle.PublishPayload{PublishedURL: req.Publish.PublishedURL}
	case req.Failure != nil:
		tr.Failure = &lifecycle.FailurePayload{ErrorLog: req.Failure.ErrorLog}
	}
	return tr, nil
}
