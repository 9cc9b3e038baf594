// Package logging builds slog loggers for the daemon and CLI with console or
// JSON output, optional file mirroring, and standardized attribute keys.
package logging
