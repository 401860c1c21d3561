package issues

import (
	"strings"
	"time"
)

// NormalizeIssue maps a raw record from either transport into the generic
// shape. Resolution order for ambiguous fields: the service's conventional
// (snake_case) name first, the CLI's alternate (camelCase) name second, then
// empty. Enumerated values are lowercased because the CLI projection
// uppercases them.
func NormalizeIssue(raw RawIssue) Issue {
	issue := Issue{
		Number:      raw.Number,
		Title:       raw.Title,
		Body:        raw.Body,
		State:       strings.ToLower(raw.State),
		StateReason: strings.ToLower(pick(raw.StateReason, raw.StateReasonAlt)),
		Labels:      labelNames(raw.Labels),
		Assignee:    firstAssignee(raw),
		CreatedAt:   parseTimestamp(pick(raw.CreatedAt, raw.CreatedAtAlt)),
		UpdatedAt:   parseTimestamp(pick(raw.UpdatedAt, raw.UpdatedAtAlt)),
		URL:         pick(raw.HTMLURL, raw.URL),
	}
	if raw.Milestone != nil && (raw.Milestone.Number > 0 || raw.Milestone.Title != "") {
		issue.Milestone = &MilestoneRef{
			Number: raw.Milestone.Number,
			Title:  raw.Milestone.Title,
		}
	}
	return issue
}

// NormalizeMilestone maps a raw milestone from either transport into the
// generic shape, with the same resolution order as NormalizeIssue.
func NormalizeMilestone(raw RawMilestone) Milestone {
	milestone := Milestone{
		Number:       raw.Number,
		Title:        raw.Title,
		Description:  raw.Description,
		State:        strings.ToLower(raw.State),
		OpenIssues:   raw.OpenIssues,
		ClosedIssues: raw.ClosedIssues,
		CreatedAt:    parseTimestamp(pick(raw.CreatedAt, raw.CreatedAtAlt)),
	}
	if due := parseTimestamp(pick(raw.DueOn, raw.DueOnAlt)); !due.IsZero() {
		milestone.DueOn = &due
	}
	return milestone
}

func pick(conventional, alternate string) string {
	if conventional != "" {
		return conventional
	}
	return alternate
}

func labelNames(labels []RawLabel) []string {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if label.Name == "" {
			continue
		}
		names = append(names, label.Name)
	}
	return names
}

// firstAssignee keeps the first of any assignee list; the singular field is
// the fallback for transports that only send one.
func firstAssignee(raw RawIssue) string {
	for _, user := range raw.Assignees {
		if user.Login != "" {
			return user.Login
		}
	}
	if raw.Assignee != nil {
		return raw.Assignee.Login
	}
	return ""
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
