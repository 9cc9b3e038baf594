package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemID is the standardized structured logging key for content item identifiers.
	FieldItemID = "item_id"
	// FieldTopic is the standardized structured logging key for content topics.
	FieldTopic = "topic"
	// FieldStatus is the standardized structured logging key for lifecycle statuses.
	FieldStatus = "status"
	// FieldEvent is the standardized structured logging key for outbox event names.
	FieldEvent = "event"
	// FieldActor is the standardized structured logging key for audit actors.
	FieldActor = "actor"
)

// WithComponent returns a logger tagged with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
