// Package lifecycle defines the content item state machine: the closed set of
// statuses, the legal transition table, the typed payload carried by each
// transition kind, and the retry policy for failed generation attempts.
//
// The package is pure logic with no persistence; internal/queue applies
// validated transitions atomically against the store.
package lifecycle
