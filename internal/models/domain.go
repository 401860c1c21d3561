package models

import (
	"fmt"
	"strings"
	"time"
)

// Status defines allowed lifecycle states for tasks.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// Priority defines allowed task priorities, highest first.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	DefaultStatus   = StatusTodo
	DefaultPriority = PriorityMedium
)

// Statuses returns all statuses in declaration order. Label resolution and
// board columns depend on this order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}
}

// Priorities returns all priorities in declaration order, highest first.
func Priorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
}

var validStatuses = map[Status]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusDone:       {},
	StatusBlocked:    {},
}

var priorityRanks = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

func IsValidStatus(status Status) bool {
	_, ok := validStatuses[status]
	return ok
}

func IsValidPriority(priority Priority) bool {
	_, ok := priorityRanks[priority]
	return ok
}

// Rank returns the sort rank of a priority: urgent=0 through low=3.
// Unknown priorities rank after all known ones.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return len(priorityRanks)
}

// ParseStatus normalizes and validates a raw status string. Underscores are
// accepted as separators for CLI ergonomics.
func ParseStatus(raw string) (Status, error) {
	value := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-"))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

// ParsePriority normalizes and validates a raw priority string.
func ParsePriority(raw string) (Priority, error) {
	value := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("priority is required")
	}
	if !IsValidPriority(value) {
		return "", fmt.Errorf("invalid priority: %s", value)
	}
	return value, nil
}

// ParseDate parses a calendar date in 2006-01-02 form to midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	return parsed.UTC(), nil
}

// FormatDate renders a timestamp as a calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
