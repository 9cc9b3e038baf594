package queue

import "errors"

var (
	// ErrValidation marks requests refused before any state change: illegal
	// transitions, malformed payloads, missing required fields.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks requests that lost a serialization race, such as a
	// duplicate-topic creation that could not surface the winner's row.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks lookups for content items that do not exist.
	ErrNotFound = errors.New("not found")
)
