package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client provides HTTP access to the daemon API for the CLI.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a client for the daemon at baseURL. The token is sent as
// a bearer credential when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Health probes daemon liveness.
func (c *Client) Health(ctx context.Context) error {
	var resp HealthResponse
	return c.do(ctx, http.MethodGet, "/api/health", nil, &resp)
}

// Create enqueues a topic. The boolean reports whether a new item was made.
func (c *Client) Create(ctx context.Context, req CreateItemRequest) (*ContentItem, bool, error) {
	body, status, err := c.doRaw(ctx, http.MethodPost, "/api/items", req)
	if err != nil {
		return nil, false, err
	}
	var resp ItemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, fmt.Errorf("decode item response: %w", err)
	}
	return &resp.Item, status == http.StatusCreated, nil
}

// List fetches items, optionally filtered by status, platform, and the
// exhausted-retry flag.
func (c *Client) List(ctx context.Context, statuses []string, platform string, limit int, exhaustedOnly bool) ([]ContentItem, error) {
	values := url.Values{}
	for _, status := range statuses {
		values.Add("status", status)
	}
	if platform != "" {
		values.Set("platform", platform)
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if exhaustedOnly {
		values.Set("exhausted", "true")
	}
	path := "/api/items"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp ItemListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Describe fetches one item by id.
func (c *Client) Describe(ctx context.Context, id string) (*ContentItem, error) {
	var resp ItemResponse
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// Transition requests a status change for an item.
func (c *Client) Transition(ctx context.Context, id string, req TransitionRequest) (*ContentItem, error) {
	var resp ItemResponse
	if err := c.do(ctx, http.MethodPost, "/api/items/"+url.PathEscape(id)+"/transition", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// Audit fetches an item's audit trail.
func (c *Client) Audit(ctx context.Context, id string) ([]AuditEntry, error) {
	var resp AuditResponse
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id)+"/audit", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Metrics fetches the pipeline snapshot.
func (c *Client) Metrics(ctx context.Context) (*MetricsResponse, error) {
	var resp MetricsResponse
	if err := c.do(ctx, http.MethodGet, "/api/metrics", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trigger asks the daemon to nudge the orchestration runner.
func (c *Client) Trigger(ctx context.Context, actor string) error {
	return c.do(ctx, http.MethodPost, "/api/trigger", TriggerRequest{Actor: actor}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	body, _, err := c.doRaw(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, resp.StatusCode, fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, resp.StatusCode, fmt.Errorf("daemon returned %d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
