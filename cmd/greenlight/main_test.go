package main

import (
	"strings"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	expected := []string{
		"create", "list", "show", "audit",
		"script-done", "approve", "reject", "render-done", "publish-done",
		"fail", "retry", "override",
		"metrics", "trigger", "health", "config",
	}
	for _, name := range expected {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	long := strings.Repeat("a", 50)
	if got := truncate(long, 10); got != strings.Repeat("a", 7)+"..." {
		t.Fatalf("truncate long = %q", got)
	}
}

func TestFormatScore(t *testing.T) {
	if got := formatScore(nil); got != "-" {
		t.Fatalf("formatScore(nil) = %q", got)
	}
	score := 0.85
	if got := formatScore(&score); got != "0.85" {
		t.Fatalf("formatScore(0.85) = %q", got)
	}
}
