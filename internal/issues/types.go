// Package issues defines the port to the remote issue store and the two
// transport adapters that implement it. Both transports deliver the same
// logical records under slightly different field shapes; RawIssue and
// RawMilestone absorb both, and the normalizer produces one generic form the
// rest of the system consumes.
package issues

import (
	"strconv"
	"time"
)

// RawIssue is the tolerant wire shape of a remote issue. REST responses use
// snake_case names; the gh CLI's --json projection uses camelCase and carries
// the web URL under "url". Only one variant of each pair is populated per
// record.
type RawIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`

	StateReason    string `json:"state_reason"`
	StateReasonAlt string `json:"stateReason"`

	Labels    []RawLabel    `json:"labels"`
	Assignees []RawUser     `json:"assignees"`
	Assignee  *RawUser      `json:"assignee"`
	Milestone *RawMilestone `json:"milestone"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`
	UpdatedAt    string `json:"updated_at"`
	UpdatedAtAlt string `json:"updatedAt"`

	HTMLURL string `json:"html_url"`
	URL     string `json:"url"`

	// Present on REST /issues responses when the record is actually a pull
	// request; such records are never tasks.
	PullRequest *struct{} `json:"pull_request"`
}

// RawLabel is a label object as returned by either transport.
type RawLabel struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// RawUser carries the only user field the planner needs.
type RawUser struct {
	Login string `json:"login"`
}

// RawMilestone is the tolerant wire shape of a remote milestone.
type RawMilestone struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`

	DueOn    string `json:"due_on"`
	DueOnAlt string `json:"dueOn"`

	OpenIssues   int `json:"open_issues"`
	ClosedIssues int `json:"closed_issues"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`

	HTMLURL string `json:"html_url"`
	URL     string `json:"url"`
}

// Issue is the generic normalized record the repository consumes. State and
// state reason are lowercase; Assignee is the first assignee login or empty;
// URL always points at the web view.
type Issue struct {
	Number      int
	Title       string
	Body        string
	State       string // "open" or "closed"
	StateReason string // "", "completed", "not_planned", "reopened"
	Labels      []string
	Assignee    string
	Milestone   *MilestoneRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
	URL         string
}

// MilestoneRef is the milestone attachment carried on an issue.
type MilestoneRef struct {
	Number int
	Title  string
}

// Milestone is the generic normalized milestone record.
type Milestone struct {
	Number       int
	Title        string
	Description  string
	State        string
	DueOn        *time.Time
	OpenIssues   int
	ClosedIssues int
	CreatedAt    time.Time
}

// Label is the write shape used when provisioning labels.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// State reasons used when closing issues.
const (
	ReasonCompleted  = "completed"
	ReasonNotPlanned = "not_planned"
)

/// MilestoneField is a nullable milestone assignment: Number 0 serializes as
// JSON null, clearing the milestone on the remote record.
type MilestoneField struct {
	Number int
}

// MarshalJSON renders the milestone number, or null to clear it.
func (f MilestoneField) MarshalJSON() ([]byte, error) {
	if f.Number <= 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Number)), nil
}

// IssuePayload is the single write shape both adapters accept. Nil fields are
// omitted from the request; only fields the caller changed are set.
type IssuePayload struct {
	Title       *string         `json:"title,omitempty"`
	Body        *string         `json:"body,omitempty"`
	State       *string         `json:"state,omitempty"`
	StateReason *string         `json:"state_reason,omitempty"`
	Labels      *[]string       `json:"labels,omitempty"`
	Assignees   *[]string       `json:"assignees,omitempty"`
	Milestone   *MilestoneField `json:"milestone,omitempty"`
}

// MilestonePayload is the write shape for milestone create/update.
type MilestonePayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	State       *string `json:"state,omitempty"`
	DueOn       *string `json:"due_on,omitempty"`
}

// ListSpec narrows a listing call. State is "open", "closed" or "all"; Labels
// are ANDed; Milestone is a milestone number rendered as a string, or empty
// for no filter.
type ListSpec struct {
	State     string
	Labels    []string
	Assignee  string
	Milestone string
}
