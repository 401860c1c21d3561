// Package tasks is the read/write surface over the remote tracker. The
// repository composes the metadata codec, the label vocabulary and the record
// normalizer behind the issues.Store port and holds no state of its own:
// every call is one or more blocking round trips, and an update blindly
// rewrites what it last read (last writer wins).
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/issues"
	"github.com/howmon/taskplanner/internal/labels"
	"github.com/howmon/taskplanner/internal/metadata"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/views"
)

// Repository maps tasks and sprints onto remote issues and milestones.
type Repository struct {
	store issues.Store
	log   *slog.Logger
}

// New creates a repository over the given store. A nil logger falls back to
// the process default.
func New(store issues.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, log: logger}
}

// CreateOptions are the optional fields of a new task. Zero values mean
// absent; status and priority default to todo and medium.
type CreateOptions struct {
	Description    string
	Status         models.Status
	Priority       models.Priority
	DueDate        *time.Time
	Tags           []string
	Assignee       string
	SprintID       *int
	MyDay          bool
	EstimatedHours float64
	ParentTaskID   *int
}

// UpdateOptions carries partial updates. Nil fields are left untouched; a
// pointer to a zero value clears the field (zero time clears the due date,
// zero sprint or parent id clears the reference, empty assignee unassigns).
type UpdateOptions struct {
	Title          *string
	Description    *string
	Status         *models.Status
	Priority       *models.Priority
	DueDate        *time.Time
	Tags           *[]string
	Assignee       *string
	SprintID       *int
	MyDay          *bool
	EstimatedHours *float64
	ActualHours    *float64
	ParentTaskID   *int
}

// ListFilter narrows List. Zero values mean no filtering on that field.
// Completed tasks are excluded unless IncludeDone is set or the status filter
// asks for them.
type ListFilter struct {
	Status      models.Status
	Priority    models.Priority
	SprintID    *int
	Assignee    string
	MyDay       *bool
	IncludeDone bool
}

// Create stores a new task and returns the canonical form built from the
// store's response.
func (r *Repository) Create(ctx context.Context, title string, opts CreateOptions) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, fmt.Errorf("title is required")
	}

	status := opts.Status
	if status == "" {
		status = models.DefaultStatus
	}
	if !models.IsValidStatus(status) {
		return models.Task{}, fmt.Errorf("invalid status: %s", status)
	}
	priority := opts.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	if !models.IsValidPriority(priority) {
		return models.Task{}, fmt.Errorf("invalid priority: %s", priority)
	}

	task := models.Task{
		Title:          title,
		Description:    opts.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        opts.DueDate,
		Tags:           opts.Tags,
		Assignee:       opts.Assignee,
		SprintID:       opts.SprintID,
		MyDay:          opts.MyDay,
		EstimatedHours: opts.EstimatedHours,
		ParentTaskID:   opts.ParentTaskID,
	}

	body := encodeBody(task, nil)
	set := labelSet(task)
	payload := issues.IssuePayload{
		Title:  &title,
		Body:   &body,
		Labels: &set,
	}
	if task.Assignee != "" {
		assignees := []string{task.Assignee}
		payload.Assignees = &assignees
	}
	if task.SprintID != nil {
		payload.Milestone = &issues.MilestoneField{Number: *task.SprintID}
	}

	created, err := r.store.CreateIssue(ctx, payload)
	if err != nil {
		return models.Task{}, err
	}
	// Issues are born open; a task created directly in done needs the state
	// to follow its label.
	if status == models.StatusDone {
		if err := r.store.CloseIssue(ctx, created.Number, issues.ReasonCompleted); err != nil {
			return models.Task{}, err
		}
	}
	r.log.Debug("task created", "id", created.Number, "title", title)
	return taskFromIssue(created), nil
}

// Get fetches one task by id. Soft-deleted tasks remain retrievable here.
func (r *Repository) Get(ctx context.Context, id int) (models.Task, error) {
	issue, err := r.store.GetIssue(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := metadata.Diagnose(issue.Body); err != nil {
		r.log.Debug("metadata block malformed", "id", id, "error", err)
	}
	return taskFromIssue(issue), nil
}

// Update applies a partial update through a read-modify-write cycle: fetch
// the current record, overlay the supplied fields, re-encode title, body and
// the full label set, write back. Concurrent writers are not detected.
func (r *Repository) Update(ctx context.Context, id int, opts UpdateOptions) (models.Task, error) {
	current, err := r.store.GetIssue(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	task := taskFromIssue(current)
	preserved, _ := metadata.Decode(current.Body)

	if opts.Title != nil {
		trimmed := strings.TrimSpace(*opts.Title)
		if trimmed == "" {
			return models.Task{}, fmt.Errorf("title cannot be empty")
		}
		task.Title = trimmed
	}
	if opts.Description != nil {
		task.Description = *opts.Description
	}
	if opts.Status != nil {
		if !models.IsValidStatus(*opts.Status) {
			return models.Task{}, fmt.Errorf("invalid status: %s", *opts.Status)
		}
		task.Status = *opts.Status
	}
	if opts.Priority != nil {
		if !models.IsValidPriority(*opts.Priority) {
			return models.Task{}, fmt.Errorf("invalid priority: %s", *opts.Priority)
		}
		task.Priority = *opts.Priority
	}
	if opts.DueDate != nil {
		if opts.DueDate.IsZero() {
			task.DueDate = nil
		} else {
			due := *opts.DueDate
			task.DueDate = &due
		}
	}
	if opts.Tags != nil {
		task.Tags = *opts.Tags
	}
	if opts.Assignee != nil {
		task.Assignee = strings.TrimSpace(*opts.Assignee)
	}
	if opts.SprintID != nil {
		if *opts.SprintID <= 0 {
			task.SprintID = nil
		} else {
			sprintID := *opts.SprintID
			task.SprintID = &sprintID
		}
	}
	if opts.MyDay != nil {
		task.MyDay = *opts.MyDay
	}
	if opts.EstimatedHours != nil {
		task.EstimatedHours = *opts.EstimatedHours
	}
	if opts.ActualHours != nil {
		task.ActualHours = *opts.ActualHours
	}
	if opts.ParentTaskID != nil {
		if *opts.ParentTaskID <= 0 {
			task.ParentTaskID = nil
		} else {
			parentID := *opts.ParentTaskID
			task.ParentTaskID = &parentID
		}
	}

	// Title, body and labels are always rewritten so the embedded block and
	// the label set track the current field values.
	body := encodeBody(task, preserved)
	set := labelSet(task)
	payload := issues.IssuePayload{
		Title:  &task.Title,
		Body:   &body,
		Labels: &set,
	}
	if opts.Assignee != nil {
		assignees := []string{}
		if task.Assignee != "" {
			assignees = []string{task.Assignee}
		}
		payload.Assignees = &assignees
	}
	if opts.SprintID != nil {
		number := 0
		if task.SprintID != nil {
			number = *task.SprintID
		}
		payload.Milestone = &issues.MilestoneField{Number: number}
	}

	if opts.Status != nil {
		switch {
		case task.Status == models.StatusDone:
			closed := "closed"
			reason := issues.ReasonCompleted
			payload.State = &closed
			payload.StateReason = &reason
		case current.State == "closed" && current.StateReason == issues.ReasonCompleted:
			// Reopen only records this system completed; a record closed as
			// not planned stays closed.
			open := "open"
			payload.State = &open
		}
	}

	updated, err := r.store.UpdateIssue(ctx, id, payload)
	if err != nil {
		return models.Task{}, err
	}
	r.log.Debug("task updated", "id", id)
	return taskFromIssue(updated), nil
}

// SoftDelete closes the record as not planned. Labels stay untouched, so the
// task remains readable by id while dropping out of every listing.
func (r *Repository) SoftDelete(ctx context.Context, id int) error {
	if err := r.store.CloseIssue(ctx, id, issues.ReasonNotPlanned); err != nil {
		return err
	}
	r.log.Debug("task closed as not planned", "id", id)
	return nil
}

// List fetches tasks matching the filter, restricted to records carrying at
// least one system label, excluding not-planned records, in canonical order.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	spec := issues.ListSpec{State: "open"}
	if filter.IncludeDone || filter.Status == models.StatusDone {
		spec.State = "all"
	}
	if filter.Status != "" {
		spec.Labels = append(spec.Labels, labels.ForStatus(filter.Status))
	}
	if filter.Priority != "" {
		spec.Labels = append(spec.Labels, labels.ForPriority(filter.Priority))
	}
	if filter.Assignee != "" {
		spec.Assignee = filter.Assignee
	}
	if filter.SprintID != nil {
		spec.Milestone = strconv.Itoa(*filter.SprintID)
	}

	fetched, err := r.store.ListIssues(ctx, spec)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(fetched))
	for _, issue := range fetched {
		if !labels.HasSystem(issue.Labels) {
			continue
		}
		if issue.State == "closed" && issue.StateReason == issues.ReasonNotPlanned {
			continue
		}
		task := taskFromIssue(issue)
		if !matchesFilter(task, filter) {
			continue
		}
		tasks = append(tasks, task)
	}
	views.Sort(tasks)
	return tasks, nil
}

// matchesFilter re-applies the filter in memory after the store-side
// narrowing.
func matchesFilter(task models.Task, filter ListFilter) bool {
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	if filter.Assignee != "" && task.Assignee != filter.Assignee {
		return false
	}
	if filter.SprintID != nil && (task.SprintID == nil || *task.SprintID != *filter.SprintID) {
		return false
	}
	if filter.MyDay != nil && task.MyDay != *filter.MyDay {
		return false
	}
	if task.Done() && !filter.IncludeDone && filter.Status != models.StatusDone {
		return false
	}
	return true
}

// CreateSprint creates a milestone-backed sprint.
func (r *Repository) CreateSprint(ctx context.Context, title, description string, dueOn *time.Time) (models.Sprint, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Sprint{}, fmt.Errorf("title is required")
	}
	payload := issues.MilestonePayload{Title: &title}
	if description != "" {
		payload.Description = &description
	}
	if dueOn != nil {
		due := dueOn.UTC().Format(time.RFC3339)
		payload.DueOn = &due
	}
	milestone, err := r.store.CreateMilestone(ctx, payload)
	if err != nil {
		return models.Sprint{}, err
	}
	r.log.Debug("sprint created", "id", milestone.Number, "title", title)
	return sprintFromMilestone(milestone), nil
}

// ListSprints lists open sprints, or all of them when includeClosed is set.
func (r *Repository) ListSprints(ctx context.Context, includeClosed bool) ([]models.Sprint, error) {
	state := models.SprintOpen
	if includeClosed {
		state = "all"
	}
	milestones, err := r.store.ListMilestones(ctx, state)
	if err != nil {
		return nil, err
	}
	sprints := make([]models.Sprint, 0, len(milestones))
	for _, milestone := range milestones {
		sprints = append(sprints, sprintFromMilestone(milestone))
	}
	return sprints, nil
}

// CloseSprint closes a sprint's milestone. Tasks keep their reference.
func (r *Repository) CloseSprint(ctx context.Context, id int) (models.Sprint, error) {
	state := models.SprintClosed
	milestone, err := r.store.UpdateMilestone(ctx, id, issues.MilestonePayload{State: &state})
	if err != nil {
		return models.Sprint{}, err
	}
	r.log.Debug("sprint closed", "id", id)
	return sprintFromMilestone(milestone), nil
}

// ProvisionLabels ensures the eight system labels exist in the remote
// repository, creating only the missing ones. Re-running never errors and
// never duplicates. Returns the names it created.
func (r *Repository) ProvisionLabels(ctx context.Context) ([]string, error) {
	existing, err := r.store.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, label := range existing {
		present[label.Name] = struct{}{}
	}

	created := []string{}
	for _, def := range labels.All() {
		if _, ok := present[def.Name]; ok {
			continue
		}
		err := r.store.CreateLabel(ctx, issues.Label{Name: def.Name, Color: def.Color, Description: def.Description})
		if err != nil {
			return created, err
		}
		created = append(created, def.Name)
	}
	if len(created) > 0 {
		r.log.Info("labels provisioned", "created", created)
	}
	return created, nil
}
