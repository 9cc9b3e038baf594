// Package config loads, normalizes, and validates greenlight configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: data directories, the API bind address, the outbound
// orchestrator webhook, and the retry policy for failed content generation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
