package models

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" IN_PROGRESS ")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if got != StatusInProgress {
		t.Fatalf("expected %q, got %q", StatusInProgress, got)
	}

	if _, err := ParseStatus("invalid"); err == nil {
		t.Fatal("expected invalid status error")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Fatal("expected empty status error")
	}
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority(" Urgent ")
	if err != nil {
		t.Fatalf("parse priority: %v", err)
	}
	if got != PriorityUrgent {
		t.Fatalf("expected %q, got %q", PriorityUrgent, got)
	}

	if _, err := ParsePriority("critical"); err == nil {
		t.Fatal("expected invalid priority error")
	}
}

func TestPriorityRank(t *testing.T) {
	ranked := Priorities()
	for i, priority := range ranked {
		if priority.Rank() != i {
			t.Fatalf("expected rank %d for %q, got %d", i, priority, priority.Rank())
		}
	}
	if Priority("bogus").Rank() != len(ranked) {
		t.Fatalf("expected unknown priority to rank last, got %d", Priority("bogus").Rank())
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-02-10")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	want := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if _, err := ParseDate("02/10/2026"); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestDueHelpers(t *testing.T) {
	due := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	task := Task{DueDate: &due}

	if !task.DueOn(time.Date(2026, 2, 2, 15, 4, 5, 0, time.UTC)) {
		t.Fatal("expected task due on 2026-02-02")
	}
	if !task.DueBefore(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("expected task due before 2026-02-03")
	}
	if task.DueBefore(due) {
		t.Fatal("same-day due date must not count as overdue")
	}

	none := Task{}
	if none.DueOn(due) || none.DueBefore(due) {
		t.Fatal("task without due date is never due")
	}
}
