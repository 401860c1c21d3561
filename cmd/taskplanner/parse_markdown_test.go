package main

import (
	"testing"

	"github.com/howmon/taskplanner/internal/models"
)

func TestParseMarkdownWithFrontMatter(t *testing.T) {
	input := `---
priority: high
due: 2026-03-01
tags: [home, chores]
myday: true
---

# Weekend plan

- Fix the gate
- Clean gutters
* Paint fence
`
	frontMatter, items, err := parseMarkdown(input)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if len(items) != 3 || items[0] != "Fix the gate" || items[2] != "Paint fence" {
		t.Fatalf("items = %v", items)
	}

	opts, err := frontMatterToOptions(frontMatter)
	if err != nil {
		t.Fatalf("frontMatterToOptions: %v", err)
	}
	if opts.Priority != models.PriorityHigh {
		t.Fatalf("priority = %s", opts.Priority)
	}
	if opts.DueDate == nil || models.FormatDate(*opts.DueDate) != "2026-03-01" {
		t.Fatalf("due date = %v", opts.DueDate)
	}
	if len(opts.Tags) != 2 || opts.Tags[0] != "home" {
		t.Fatalf("tags = %v", opts.Tags)
	}
	if !opts.MyDay {
		t.Fatal("myday flag lost")
	}
}

func TestParseMarkdownWithoutFrontMatter(t *testing.T) {
	frontMatter, items, err := parseMarkdown("- only item\n\nsome prose\n")
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if len(frontMatter) != 0 {
		t.Fatalf("front matter = %v", frontMatter)
	}
	if len(items) != 1 || items[0] != "only item" {
		t.Fatalf("items = %v", items)
	}
}

func TestParseMarkdownUnclosedFrontMatter(t *testing.T) {
	if _, _, err := parseMarkdown("---\npriority: high\n- item\n"); err == nil {
		t.Fatal("unclosed front matter should error")
	}
}

func TestFrontMatterToOptionsRejectsBadValues(t *testing.T) {
	if _, err := frontMatterToOptions(map[string]any{"priority": "asap"}); err == nil {
		t.Fatal("invalid priority should error")
	}
	if _, err := frontMatterToOptions(map[string]any{"due": "tomorrow"}); err == nil {
		t.Fatal("invalid due date should error")
	}
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]int{"7": 7, "#12": 12, " 3 ": 3} {
		got, err := parseID(raw)
		if err != nil || got != want {
			t.Fatalf("parseID(%q) = (%d, %v), want %d", raw, got, err, want)
		}
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := parseID(raw); err == nil {
			t.Fatalf("parseID(%q) should error", raw)
		}
	}
}
