package lifecycle

import "strings"

// Status represents the lifecycle state of a content item.
type Status string

const (
	StatusPendingGeneration Status = "PENDING_GENERATION"
	StatusPendingReview     Status = "PENDING_REVIEW"
	StatusPendingRender     Status = "PENDING_RENDER"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusPublished         Status = "PUBLISHED"
	StatusError             Status = "ERROR"
)

var allStatuses = []Status{
	StatusPendingGeneration,
	StatusPendingReview,
	StatusPendingRender,
	StatusApproved,
	StatusRejected,
	StatusPublished,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further automatic transition.
// ERROR is terminal only once the retry policy is exhausted.
func IsTerminal(status Status, retryCount int, policy RetryPolicy) bool {
	switch status {
	case StatusRejected, StatusPublished:
		return true
	case StatusError:
		return policy.Exhausted(retryCount)
	default:
		return false
	}
}

// IsActiveStage reports whether a status represents an in-flight pipeline
// stage that may report failure.
func IsActiveStage(status Status) bool {
	switch status {
	case StatusPendingGeneration, StatusPendingReview, StatusPendingRender, StatusApproved:
		return true
	default:
		return false
	}
}
