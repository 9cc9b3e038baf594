package daemon_test

import (
	"context"
	"strings"
	"testing"

	"greenlight/internal/api"
	"greenlight/internal/lifecycle"
	"greenlight/internal/testsupport"
)

func startDaemonClient(t *testing.T, opts ...testsupport.ConfigOption) *api.Client {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	d := newTestDaemon(t, cfg, store)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return api.NewClient("http://"+d.APIAddr(), cfg.Paths.APIToken)
}

func TestAPICreateAndDescribe(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	item, created, err := client.Create(ctx, api.CreateItemRequest{Topic: "Home Office Deduction", Platform: "tiktok"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("expected 201 for a fresh topic")
	}
	if item.Status != string(lifecycle.StatusPendingGeneration) {
		t.Fatalf("status = %q", item.Status)
	}

	dup, created, err := client.Create(ctx, api.CreateItemRequest{Topic: "Home Office Deduction"})
	if err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}
	if created {
		t.Fatal("expected 200 for an already-active topic")
	}
	if dup.ID != item.ID {
		t.Fatalf("duplicate create returned %s, want %s", dup.ID, item.ID)
	}

	fetched, err := client.Describe(ctx, item.ID)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if fetched.Topic != "Home Office Deduction" {
		t.Fatalf("topic = %q", fetched.Topic)
	}
}

func TestAPITransitionAndAudit(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	item, _, err := client.Create(ctx, api.CreateItemRequest{Topic: "Mileage Rules"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	score := 0.85
	updated, err := client.Transition(ctx, item.ID, api.TransitionRequest{
		Target: string(lifecycle.StatusPendingReview),
		Actor:  "workflow",
		Script: &api.ScriptRequest{
			Hook:            "Stop guessing your mileage.",
			Body:            "The standard rate versus actual expenses, explained.",
			CTA:             "Save this for tax season.",
			ComplianceScore: &score,
		},
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != string(lifecycle.StatusPendingReview) {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.Script == nil || updated.Script.Hook == "" {
		t.Fatal("script missing from response")
	}

	// Illegal move returns 422 and changes nothing.
	_, err = client.Transition(ctx, item.ID, api.TransitionRequest{
		Target:  string(lifecycle.StatusPublished),
		Publish: &api.PublishRequest{PublishedURL: "https://example.com"},
	})
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected 422 for illegal transition, got %v", err)
	}

	entries, err := client.Audit(ctx, item.ID)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].OldStatus != string(lifecycle.StatusPendingGeneration) ||
		entries[0].NewStatus != string(lifecycle.StatusPendingReview) {
		t.Fatalf("audit entry %s -> %s", entries[0].OldStatus, entries[0].NewStatus)
	}
}

func TestAPIMetricsAndTrigger(t *testing.T) {
	client := startDaemonClient(t)
	ctx := context.Background()

	if _, _, err := client.Create(ctx, api.CreateItemRequest{Topic: "Metrics Topic"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	snapshot, err := client.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if snapshot.TotalCount != 1 {
		t.Fatalf("total = %d, want 1", snapshot.TotalCount)
	}
	if snapshot.StatusCounts[string(lifecycle.StatusPendingGeneration)] != 1 {
		t.Fatalf("PENDING_GENERATION count = %d", snapshot.StatusCounts[string(lifecycle.StatusPendingGeneration)])
	}

	if err := client.Trigger(ctx, "operator"); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
}

func TestAPIRequiresBearerToken(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret"))
	store := testsupport.MustOpenStore(t, cfg)
	d := newTestDaemon(t, cfg, store)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx := context.Background()
	unauthorized := api.NewClient("http://"+d.APIAddr(), "")
	if _, err := unauthorized.List(ctx, nil, "", 0, false); err == nil {
		t.Fatal("expected unauthorized error without a token")
	}
	// Health stays open for probes.
	if err := unauthorized.Health(ctx); err != nil {
		t.Fatalf("Health without token: %v", err)
	}

	authorized := api.NewClient("http://"+d.APIAddr(), "secret")
	if _, err := authorized.List(ctx, nil, "", 0, false); err != nil {
		t.Fatalf("List with token: %v", err)
	}
}

func TestAPINotFound(t *testing.T) {
	client := startDaemonClient(t)

	_, err := client.Describe(context.Background(), "missing-id")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404, got %v", err)
	}
}
