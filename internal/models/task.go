package models

import "time"

// Task is the canonical in-memory view of one remote issue. The id is the
// issue number; timestamps are owned by the remote store.
type Task struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	SprintID       *int       `json:"sprint_id,omitempty"`
	MyDay          bool       `json:"my_day"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	ParentTaskID   *int       `json:"parent_task_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	URL            string     `json:"url,omitempty"`
}

// Done reports whether the task is complete.
func (t Task) Done() bool {
	return t.Status == StatusDone
}

// DueBefore reports whether the task has a due date strictly before the given
// calendar date.
func (t Task) DueBefore(day time.Time) bool {
	return t.DueDate != nil && DateOf(*t.DueDate).Before(DateOf(day))
}

// DueOn reports whether the task is due exactly on the given calendar date.
func (t Task) DueOn(day time.Time) bool {
	return t.DueDate != nil && SameDay(*t.DueDate, day)
}
