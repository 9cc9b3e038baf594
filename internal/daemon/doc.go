// Package daemon runs the long-lived greenlight process: it enforces
// single-instance execution, serves the HTTP API, and drives the outbox
// dispatcher.
package daemon
