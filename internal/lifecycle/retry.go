package lifecycle

// DefaultMaxRetries is the number of failures tolerated before an item is
// pinned in ERROR and requires manual intervention.
const DefaultMaxRetries = 3

// RetryPolicy governs how many generation failures are tolerated before a
// content item becomes terminal in ERROR.
type RetryPolicy struct {
	MaxRetries int
}

// DefaultRetryPolicy returns the standard three-strike policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries}
}

func (p RetryPolicy) cap() int {
	if p.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return p.MaxRetries
}

// CanRetry reports whether an item with the given retry count may re-attempt
// its failed stage.
func (p RetryPolicy) CanRetry(retryCount int) bool {
	return retryCount < p.cap()
}

// Exhausted reports whether the retry budget has been spent.
func (p RetryPolicy) Exhausted(retryCount int) bool {
	return retryCount >= p.cap()
}
