// Package api defines the transport DTOs shared by the daemon HTTP server
// and the CLI client, plus the service layer that maps HTTP requests onto
// queue operations.
package api
