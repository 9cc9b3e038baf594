package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"greenlight/internal/config"
	"greenlight/internal/queue"
)

const userAgent = "Greenlight-Go/0.1.0"

// Notifier delivers one workflow notification to the orchestration runner.
type Notifier interface {
	Notify(ctx context.Context, entry queue.OutboxEntry) error
}

// NewNotifier builds a webhook notifier when a URL is configured. Without a
// webhook URL a noop implementation is returned and the outbox still records
// every event for inspection.
func NewNotifier(cfg *config.Config) Notifier {
	url := strings.TrimSpace(cfg.Orchestrator.WebhookURL)
	if url == "" {
		return noopNotifier{}
	}

	timeout := time.Duration(cfg.Orchestrator.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &webhookNotifier{
		endpoint: url,
		client:   &http.Client{Timeout: timeout},
	}
}

type webhookNotifier struct {
	endpoint string
	client   *http.Client
}

func (w *webhookNotifier) Notify(ctx context.Context, entry queue.OutboxEntry) error {
	if w == nil || w.client == nil {
		return nil
	}

	body := entry.Payload
	if body == "" {
		body = "{}"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Greenlight-Event", entry.Event)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, queue.OutboxEntry) error { return nil }
