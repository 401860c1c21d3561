package tasks

import (
	"github.com/howmon/taskplanner/internal/issues"
	"github.com/howmon/taskplanner/internal/labels"
	"github.com/howmon/taskplanner/internal/metadata"
	"github.com/howmon/taskplanner/internal/models"
)

// taskFromIssue builds the canonical task from a normalized record: metadata
// and description from the body, status and priority from the system labels,
// user tags from the remaining labels. The metadata copies of priority and
// tags are write-side redundancy; the labels win on read.
func taskFromIssue(issue issues.Issue) models.Task {
	fields, description := metadata.Decode(issue.Body)
	task := models.Task{
		ID:          issue.Number,
		Title:       issue.Title,
		Description: description,
		Status:      labels.StatusFor(issue.Labels),
		Priority:    labels.PriorityFor(issue.Labels),
		Tags:        labels.UserTags(issue.Labels),
		Assignee:    issue.Assignee,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
		URL:         issue.URL,
	}
	if issue.Milestone != nil {
		sprintID := issue.Milestone.Number
		task.SprintID = &sprintID
	}
	if due, ok := fields[metadata.KeyDue].(string); ok {
		if parsed, err := models.ParseDate(due); err == nil {
			task.DueDate = &parsed
		}
	}
	task.EstimatedHours = floatField(fields, metadata.KeyEstimate)
	task.ActualHours = floatField(fields, metadata.KeySpent)
	if myDay, ok := fields[metadata.KeyMyDay].(bool); ok {
		task.MyDay = myDay
	}
	if parent, ok := fields[metadata.KeyParent].(int); ok && parent > 0 {
		parentID := parent
		task.ParentTaskID = &parentID
	}
	return task
}

// floatField accepts both integer and decimal coercions for hour counts.
func floatField(fields metadata.Fields, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// metadataFields projects the task into the metadata block. Unknown keys from
// a previously decoded block are carried over untouched; known keys are
// recomputed from the task, with zero-valued optional fields left out.
func metadataFields(task models.Task, preserved metadata.Fields) metadata.Fields {
	fields := metadata.Fields{}
	for key, value := range preserved {
		if !metadata.Known(key) {
			fields[key] = value
		}
	}
	fields[metadata.KeyPriority] = string(task.Priority)
	if task.DueDate != nil {
		fields[metadata.KeyDue] = models.FormatDate(*task.DueDate)
	}
	if task.EstimatedHours > 0 {
		fields[metadata.KeyEstimate] = task.EstimatedHours
	}
	if task.ActualHours > 0 {
		fields[metadata.KeySpent] = task.ActualHours
	}
	if len(task.Tags) > 0 {
		fields[metadata.KeyTags] = append([]string(nil), task.Tags...)
	}
	if task.MyDay {
		fields[metadata.KeyMyDay] = true
	}
	if task.ParentTaskID != nil {
		fields[metadata.KeyParent] = *task.ParentTaskID
	}
	return fields
}

// labelSet is the full desired label set for a task: one status label, one
// priority label, then the user tags.
func labelSet(task models.Task) []string {
	set := []string{labels.ForStatus(task.Status), labels.ForPriority(task.Priority)}
	return append(set, task.Tags...)
}

func encodeBody(task models.Task, preserved metadata.Fields) string {
	return metadata.Encode(metadataFields(task, preserved), task.Description)
}

func sprintFromMilestone(milestone issues.Milestone) models.Sprint {
	return models.Sprint{
		ID:          milestone.Number,
		Title:       milestone.Title,
		Description: milestone.Description,
		DueOn:       milestone.DueOn,
		State:       milestone.State,
		OpenCount:   milestone.OpenIssues,
		ClosedCount: milestone.ClosedIssues,
		CreatedAt:   milestone.CreatedAt,
	}
}
