package lifecycle_test

import (
	"errors"
	"strings"
	"testing"

	"greenlight/internal/lifecycle"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  lifecycle.Status
		ok    bool
	}{
		{"PENDING_REVIEW", lifecycle.StatusPendingReview, true},
		{"pending_review", lifecycle.StatusPendingReview, true},
		{"  published  ", lifecycle.StatusPublished, true},
		{"", "", false},
		{"SHIPPED", "", false},
	}
	for _, tc := range cases {
		got, ok := lifecycle.ParseStatus(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	legal := []struct {
		from, to lifecycle.Status
	}{
		{lifecycle.StatusPendingGeneration, lifecycle.StatusPendingReview},
		{lifecycle.StatusPendingReview, lifecycle.StatusPendingRender},
		{lifecycle.StatusPendingReview, lifecycle.StatusRejected},
		{lifecycle.StatusPendingRender, lifecycle.StatusApproved},
		{lifecycle.StatusApproved, lifecycle.StatusPublished},
		{lifecycle.StatusPendingGeneration, lifecycle.StatusError},
		{lifecycle.StatusApproved, lifecycle.StatusError},
	}
	for _, tc := range legal {
		if !lifecycle.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct {
		from, to lifecycle.Status
	}{
		{lifecycle.StatusPendingGeneration, lifecycle.StatusApproved},
		{lifecycle.StatusPendingReview, lifecycle.StatusApproved},
		{lifecycle.StatusPendingReview, lifecycle.StatusPublished},
		{lifecycle.StatusRejected, lifecycle.StatusPendingReview},
		{lifecycle.StatusPublished, lifecycle.StatusPendingGeneration},
		{lifecycle.StatusError, lifecycle.StatusPendingReview},
		{lifecycle.StatusApproved, lifecycle.StatusPendingReview},
	}
	for _, tc := range illegal {
		if lifecycle.CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be refused", tc.from, tc.to)
		}
	}
}

func TestValidateRejectsShortReason(t *testing.T) {
	tr := lifecycle.RejectContent("reviewer", "too short")
	if _, err := tr.Validate(lifecycle.StatusPendingReview, "", 0, lifecycle.DefaultRetryPolicy()); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected ErrRefused for short reason, got %v", err)
	}

	tr = lifecycle.RejectContent("reviewer", "   padded but still short   ")
	target, err := tr.Validate(lifecycle.StatusPendingReview, "", 0, lifecycle.DefaultRetryPolicy())
	if err != nil {
		t.Fatalf("expected trimmed 25-char reason to pass, got %v", err)
	}
	if target != lifecycle.StatusRejected {
		t.Fatalf("expected target %s, got %s", lifecycle.StatusRejected, target)
	}
}

func TestValidateRequiresMatchingPayload(t *testing.T) {
	policy := lifecycle.DefaultRetryPolicy()

	empty := lifecycle.ScriptDelivered(lifecycle.ScriptPayload{})
	if _, err := empty.Validate(lifecycle.StatusPendingGeneration, "", 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected empty script payload to be refused, got %v", err)
	}

	legacy := lifecycle.ScriptDelivered(lifecycle.ScriptPayload{LegacyText: "flat script body"})
	if _, err := legacy.Validate(lifecycle.StatusPendingGeneration, "", 0, policy); err != nil {
		t.Fatalf("expected legacy flat script to pass, got %v", err)
	}

	render := lifecycle.RenderComplete("  ")
	if _, err := render.Validate(lifecycle.StatusPendingRender, "", 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected blank video path to be refused, got %v", err)
	}

	publish := lifecycle.PublishComplete("")
	if _, err := publish.Validate(lifecycle.StatusApproved, "", 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected blank published URL to be refused, got %v", err)
	}

	fail := lifecycle.Fail("")
	if _, err := fail.Validate(lifecycle.StatusPendingRender, "", 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected blank error log to be refused, got %v", err)
	}
}

func TestValidateComplianceScoreBounds(t *testing.T) {
	score := 1.2
	tr := lifecycle.ScriptDelivered(lifecycle.ScriptPayload{LegacyText: "script", ComplianceScore: &score})
	_, err := tr.Validate(lifecycle.StatusPendingGeneration, "", 0, lifecycle.DefaultRetryPolicy())
	if !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected out-of-range compliance score to be refused, got %v", err)
	}
	if !strings.Contains(err.Error(), "compliance") {
		t.Fatalf("expected compliance detail in error, got %q", err.Error())
	}
}

func TestRetryValidation(t *testing.T) {
	policy := lifecycle.DefaultRetryPolicy()
	retry := lifecycle.RetryFailed()

	target, err := retry.Validate(lifecycle.StatusError, lifecycle.StatusPendingRender, 1, policy)
	if err != nil {
		t.Fatalf("expected retry below cap to pass, got %v", err)
	}
	if target != lifecycle.StatusPendingRender {
		t.Fatalf("expected retry to resolve to failed stage, got %s", target)
	}

	if _, err := retry.Validate(lifecycle.StatusError, lifecycle.StatusPendingRender, 3, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected retry at cap to be refused, got %v", err)
	}
	if _, err := retry.Validate(lifecycle.StatusPendingReview, lifecycle.StatusPendingRender, 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected retry from non-ERROR status to be refused, got %v", err)
	}
	if _, err := retry.Validate(lifecycle.StatusError, "", 0, policy); !errors.Is(err, lifecycle.ErrRefused) {
		t.Fatalf("expected retry without a recorded failed stage to be refused, got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	policy := lifecycle.DefaultRetryPolicy()
	if !lifecycle.IsTerminal(lifecycle.StatusPublished, 0, policy) {
		t.Fatal("PUBLISHED should be terminal")
	}
	if !lifecycle.IsTerminal(lifecycle.StatusRejected, 0, policy) {
		t.Fatal("REJECTED should be terminal")
	}
	if lifecycle.IsTerminal(lifecycle.StatusError, 2, policy) {
		t.Fatal("ERROR below the cap should not be terminal")
	}
	if !lifecycle.IsTerminal(lifecycle.StatusError, 3, policy) {
		t.Fatal("ERROR at the cap should be terminal")
	}
	if lifecycle.IsTerminal(lifecycle.StatusPendingReview, 0, policy) {
		t.Fatal("PENDING_REVIEW should not be terminal")
	}
}

func TestRetryPolicyDefaults(t *testing.T) {
	var zero lifecycle.RetryPolicy
	if !zero.CanRetry(2) || zero.CanRetry(3) {
		t.Fatal("zero policy should fall back to the default cap of 3")
	}
	custom := lifecycle.RetryPolicy{MaxRetries: 5}
	if !custom.CanRetry(4) || custom.CanRetry(5) {
		t.Fatal("custom cap not honored")
	}
}
