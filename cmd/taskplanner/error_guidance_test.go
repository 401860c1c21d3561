package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/issues"
)

func TestFormatCLIErrorNil(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func TestFormatCLIErrorMissingRepo(t *testing.T) {
	lines := formatCLIError(&config.MissingError{Key: "repo"})
	if len(lines) < 2 {
		t.Fatalf("expected hint lines, got %v", lines)
	}
	if !strings.Contains(lines[1], "config set repo") {
		t.Fatalf("expected repo hint, got %q", lines[1])
	}
}

func TestFormatCLIErrorMissingToken(t *testing.T) {
	lines := formatCLIError(&config.MissingError{Key: "token"})
	found := false
	for _, line := range lines {
		if strings.Contains(line, "GITHUB_TOKEN") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected token hint, got %v", lines)
	}
}

func TestFormatCLIErrorNotFound(t *testing.T) {
	err := fmt.Errorf("get task: %w", &issues.NotFoundError{Resource: "issue", Number: 7})
	lines := formatCLIError(err)
	if len(lines) != 2 {
		t.Fatalf("expected error + one hint, got %v", lines)
	}
	if !strings.Contains(lines[1], "list --all") {
		t.Fatalf("expected listing hint, got %q", lines[1])
	}

	err = fmt.Errorf("close sprint: %w", &issues.NotFoundError{Resource: "milestone", Number: 3})
	lines = formatCLIError(err)
	if !strings.Contains(lines[1], "sprint list") {
		t.Fatalf("expected sprint hint, got %q", lines[1])
	}
}

func TestFormatCLIErrorRemoteWrite(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{401, "GITHUB_TOKEN"},
		{403, "gh auth status"},
		{422, "assignee and sprint"},
		{500, "retry shortly"},
	}
	for _, tc := range cases {
		err := &issues.RemoteWriteError{Op: "update issue", Status: tc.status, Message: "rejected"}
		lines := formatCLIError(err)
		found := false
		for _, line := range lines {
			if strings.Contains(line, tc.want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("status %d: expected hint containing %q, got %v", tc.status, tc.want, lines)
		}
	}
}

func TestFormatCLIErrorPlainErrorHasNoHints(t *testing.T) {
	lines := formatCLIError(errors.New("boom"))
	if len(lines) != 1 || lines[0] != "boom" {
		t.Fatalf("plain error should pass through unchanged, got %v", lines)
	}
}

func TestUniqueLinesDropsDuplicatesAndBlanks(t *testing.T) {
	lines := uniqueLines([]string{"a", "", "b", "a"})
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("uniqueLines = %v", lines)
	}
}
