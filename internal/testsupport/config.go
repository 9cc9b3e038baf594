package testsupport

import (
	"path/filepath"
	"testing"

	"greenlight/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Orchestrator.WebhookURL = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMaxRetries overrides the workflow retry cap on the test config.
func WithMaxRetries(max int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.MaxRetries = max
	}
}

// WithWebhook points the orchestrator webhook at the given URL.
func WithWebhook(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Orchestrator.WebhookURL = url
	}
}

// WithAPIToken sets the bearer token required by the daemon API.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}
