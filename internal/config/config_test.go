package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"greenlight/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file to be reported")
	}
	if cfg.Workflow.MaxRetries != 3 {
		t.Fatalf("expected default retry cap 3, got %d", cfg.Workflow.MaxRetries)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7474" {
		t.Fatalf("unexpected default api bind: %s", cfg.Paths.APIBind)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `"
api_token = "secret"

[orchestrator]
webhook_url = "http://runner.local/webhook/trigger"

[workflow]
max_retries = 5
default_actor = "pipeline"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Workflow.MaxRetries != 5 || cfg.Workflow.DefaultActor != "pipeline" {
		t.Fatalf("workflow overrides not applied: %+v", cfg.Workflow)
	}
	if cfg.Orchestrator.WebhookURL != "http://runner.local/webhook/trigger" {
		t.Fatalf("orchestrator override not applied: %+v", cfg.Orchestrator)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "greenlight.db") {
		t.Fatalf("unexpected database path: %s", cfg.DatabasePath())
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestAPIBaseURL(t *testing.T) {
	cfg := config.Default()
	if got := cfg.APIBaseURL(); got != "http://127.0.0.1:7474" {
		t.Fatalf("unexpected base URL: %s", got)
	}
	cfg.Paths.APIBind = ":8080"
	if got := cfg.APIBaseURL(); got != "http://127.0.0.1:8080" {
		t.Fatalf("expected loopback host for bare port, got %s", got)
	}
	cfg.Paths.APIURL = "https://greenlight.internal/"
	if got := cfg.APIBaseURL(); got != "https://greenlight.internal" {
		t.Fatalf("expected api_url to win, got %s", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[orchestrator]") {
		t.Fatal("sample config missing orchestrator section")
	}
}
