package lifecycle

import (
	"errors"
	"fmt"
)

// ErrRefused marks a transition request that failed validation. The item must
// remain untouched when a wrapped ErrRefused is returned.
var ErrRefused = errors.New("transition refused")

// legalTargets is the closed transition table. The canonical linearization is
// the full render path: PENDING_GENERATION -> PENDING_REVIEW -> PENDING_RENDER
// -> APPROVED -> PUBLISHED. Failures from any active stage land in ERROR;
// leaving ERROR goes through the retry policy, not this table.
var legalTargets = map[Status][]Status{
	StatusPendingGeneration: {StatusPendingReview, StatusError},
	StatusPendingReview:     {StatusPendingRender, StatusRejected, StatusError},
	StatusPendingRender:     {StatusApproved, StatusError},
	StatusApproved:          {StatusPublished, StatusError},
	StatusRejected:          {},
	StatusPublished:         {},
	StatusError:             {},
}

// CanTransition reports whether the transition table permits from -> to.
func CanTransition(from, to Status) bool {
	for _, target := range legalTargets[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Validate resolves and checks a transition against the item's current state.
// It returns the effective target status, or a wrapped ErrRefused describing
// why the request is illegal. failedFrom is the stage recorded when the item
// entered ERROR and is only consulted for retries.
func (t Transition) Validate(from, failedFrom Status, retryCount int, policy RetryPolicy) (Status, error) {
	if t.Retry {
		if from != StatusError {
			return "", fmt.Errorf("%w: retry is only legal from %s, item is %s", ErrRefused, StatusError, from)
		}
		if !policy.CanRetry(retryCount) {
			return "", fmt.Errorf("%w: retry budget exhausted (%d failures)", ErrRefused, retryCount)
		}
		if _, ok := statusSet[failedFrom]; !ok || failedFrom == StatusError {
			return "", fmt.Errorf("%w: no failed stage recorded for retry", ErrRefused)
		}
		return failedFrom, nil
	}

	if _, ok := statusSet[t.Target]; !ok {
		return "", fmt.Errorf("%w: unknown target status %q", ErrRefused, string(t.Target))
	}
	if t.Target == StatusError && !IsActiveStage(from) {
		return "", fmt.Errorf("%w: cannot report failure from %s", ErrRefused, from)
	}
	if !CanTransition(from, t.Target) {
		return "", fmt.Errorf("%w: %s -> %s is not a legal transition", ErrRefused, from, t.Target)
	}
	if err := t.validatePayload(); err != nil {
		return "", err
	}
	return t.Target, nil
}
