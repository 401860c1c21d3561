package server

import (
	"context"
	"strconv"
	"time"

	"github.com/howmon/taskplanner/internal/issues"
)

// memStore is a minimal in-memory issues.Store for handler tests. It applies
// payloads the way the remote tracker would, without any transport.
type memStore struct {
	nextIssue     int
	nextMilestone int
	issues        map[int]*issues.Issue
	milestones    map[int]*issues.Milestone
	labels        []issues.Label
}

func newMemStore() *memStore {
	return &memStore{
		issues:     map[int]*issues.Issue{},
		milestones: map[int]*issues.Milestone{},
	}
}

func (m *memStore) ListIssues(_ context.Context, spec issues.ListSpec) ([]issues.Issue, error) {
	var out []issues.Issue
	for number := 1; number <= m.nextIssue; number++ {
		issue, ok := m.issues[number]
		if !ok {
			continue
		}
		if spec.State != "all" && spec.State != "" && issue.State != spec.State {
			continue
		}
		if !containsAll(issue.Labels, spec.Labels) {
			continue
		}
		if spec.Assignee != "" && issue.Assignee != spec.Assignee {
			continue
		}
		if spec.Milestone != "" {
			if issue.Milestone == nil || strconv.Itoa(issue.Milestone.Number) != spec.Milestone {
				continue
			}
		}
		out = append(out, *issue)
	}
	return out, nil
}

func containsAll(have, want []string) bool {
	set := map[string]struct{}{}
	for _, name := range have {
		set[name] = struct{}{}
	}
	for _, name := range want {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}

func (m *memStore) GetIssue(_ context.Context, number int) (issues.Issue, error) {
	issue, ok := m.issues[number]
	if !ok {
		return issues.Issue{}, &issues.NotFoundError{Resource: "issue", Number: number}
	}
	return *issue, nil
}

func (m *memStore) CreateIssue(_ context.Context, payload issues.IssuePayload) (issues.Issue, error) {
	m.nextIssue++
	issue := &issues.Issue{Number: m.nextIssue, State: "open", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.apply(issue, payload)
	m.issues[issue.Number] = issue
	return *issue, nil
}

func (m *memStore) UpdateIssue(_ context.Context, number int, payload issues.IssuePayload) (issues.Issue, error) {
	issue, ok := m.issues[number]
	if !ok {
		return issues.Issue{}, &issues.NotFoundError{Resource: "issue", Number: number}
	}
	m.apply(issue, payload)
	return *issue, nil
}

func (m *memStore) CloseIssue(_ context.Context, number int, reason string) error {
	issue, ok := m.issues[number]
	if !ok {
		return &issues.NotFoundError{Resource: "issue", Number: number}
	}
	issue.State = "closed"
	issue.StateReason = reason
	return nil
}

func (m *memStore) apply(issue *issues.Issue, payload issues.IssuePayload) {
	if payload.Title != nil {
		issue.Title = *payload.Title
	}
	if payload.Body != nil {
		issue.Body = *payload.Body
	}
	if payload.Labels != nil {
		issue.Labels = append([]string(nil), (*payload.Labels)...)
	}
	if payload.Assignees != nil {
		issue.Assignee = ""
		if len(*payload.Assignees) > 0 {
			issue.Assignee = (*payload.Assignees)[0]
		}
	}
	if payload.Milestone != nil {
		if payload.Milestone.Number <= 0 {
			issue.Milestone = nil
		} else if milestone, ok := m.milestones[payload.Milestone.Number]; ok {
			issue.Milestone = &issues.MilestoneRef{Number: milestone.Number, Title: milestone.Title}
		}
	}
	if payload.State != nil {
		issue.State = *payload.State
		issue.StateReason = ""
	}
	if payload.StateReason != nil {
		issue.StateReason = *payload.StateReason
	}
	issue.UpdatedAt = time.Now()
}

func (m *memStore) CreateMilestone(_ context.Context, payload issues.MilestonePayload) (issues.Milestone, error) {
	m.nextMilestone++
	milestone := &issues.Milestone{Number: m.nextMilestone, State: "open", CreatedAt: time.Now()}
	m.applyMilestone(milestone, payload)
	m.milestones[milestone.Number] = milestone
	return *milestone, nil
}

func (m *memStore) ListMilestones(_ context.Context, state string) ([]issues.Milestone, error) {
	var out []issues.Milestone
	for number := 1; number <= m.nextMilestone; number++ {
		milestone, ok := m.milestones[number]
		if !ok {
			continue
		}
		if state != "all" && state != "" && milestone.State != state {
			continue
		}
		out = append(out, *milestone)
	}
	return out, nil
}

func (m *memStore) UpdateMilestone(_ context.Context, number int, payload issues.MilestonePayload) (issues.Milestone, error) {
	milestone, ok := m.milestones[number]
	if !ok {
		return issues.Milestone{}, &issues.NotFoundError{Resource: "milestone", Number: number}
	}
	m.applyMilestone(milestone, payload)
	return *milestone, nil
}

func (m *memStore) applyMilestone(milestone *issues.Milestone, payload issues.MilestonePayload) {
	if payload.Title != nil {
		milestone.Title = *payload.Title
	}
	if payload.Description != nil {
		milestone.Description = *payload.Description
	}
	if payload.State != nil {
		milestone.State = *payload.State
	}
	if payload.DueOn != nil {
		if due, err := time.Parse(time.RFC3339, *payload.DueOn); err == nil {
			milestone.DueOn = &due
		}
	}
}

func (m *memStore) ListLabels(_ context.Context) ([]issues.Label, error) {
	return append([]issues.Label(nil), m.labels...), nil
}

func (m *memStore) CreateLabel(_ context.Context, label issues.Label) error {
	m.labels = append(m.labels, label)
	return nil
}
