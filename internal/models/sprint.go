package models

import "time"

// Sprint state values mirror the remote milestone states.
const (
	SprintOpen   = "open"
	SprintClosed = "closed"
)

// Sprint is the canonical wrapper over a remote milestone.
type Sprint struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueOn       *time.Time `json:"due_on,omitempty"`
	State       string     `json:"state"`
	OpenCount   int        `json:"open_count"`
	ClosedCount int        `json:"closed_count"`
	CreatedAt   time.Time  `json:"created_at"`
}
