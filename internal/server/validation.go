package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

type taskCreateRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"due_date"`
	Tags           []string `json:"tags"`
	Assignee       string   `json:"assignee"`
	SprintID       *int     `json:"sprint_id"`
	MyDay          bool     `json:"my_day"`
	EstimatedHours float64  `json:"estimated_hours"`
	ParentTaskID   *int     `json:"parent_task_id"`
}

func (req taskCreateRequest) options() (string, tasks.CreateOptions, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", tasks.CreateOptions{}, badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired)
	}

	opts := tasks.CreateOptions{
		Description:    req.Description,
		Tags:           req.Tags,
		Assignee:       strings.TrimSpace(req.Assignee),
		MyDay:          req.MyDay,
		EstimatedHours: req.EstimatedHours,
	}

	if req.Status != "" {
		status, err := models.ParseStatus(req.Status)
		if err != nil {
			return "", tasks.CreateOptions{}, badRequestCode(err, ErrCodeInvalidStatus)
		}
		opts.Status = status
	}
	if req.Priority != "" {
		priority, err := models.ParsePriority(req.Priority)
		if err != nil {
			return "", tasks.CreateOptions{}, badRequestCode(err, ErrCodeInvalidPriority)
		}
		opts.Priority = priority
	}
	if req.DueDate != "" {
		due, err := models.ParseDate(req.DueDate)
		if err != nil {
			return "", tasks.CreateOptions{}, badRequestCode(err, ErrCodeInvalidDate)
		}
		opts.DueDate = &due
	}
	if req.EstimatedHours < 0 {
		return "", tasks.CreateOptions{}, badRequest(fmt.Errorf("estimated_hours must be >= 0"))
	}
	if err := validateRef(req.SprintID, "sprint_id"); err != nil {
		return "", tasks.CreateOptions{}, err
	}
	if err := validateRef(req.ParentTaskID, "parent_task_id"); err != nil {
		return "", tasks.CreateOptions{}, err
	}
	opts.SprintID = req.SprintID
	opts.ParentTaskID = req.ParentTaskID

	return title, opts, nil
}

// taskUpdateRequest carries a partial update. Absent fields are left
// untouched; an empty due_date or assignee clears the field, and a zero
// sprint_id or parent_task_id drops the reference.
type taskUpdateRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Status         *string   `json:"status"`
	Priority       *string   `json:"priority"`
	DueDate        *string   `json:"due_date"`
	Tags           *[]string `json:"tags"`
	Assignee       *string   `json:"assignee"`
	SprintID       *int      `json:"sprint_id"`
	MyDay          *bool     `json:"my_day"`
	EstimatedHours *float64  `json:"estimated_hours"`
	ActualHours    *float64  `json:"actual_hours"`
	ParentTaskID   *int      `json:"parent_task_id"`
}

func (req taskUpdateRequest) options() (tasks.UpdateOptions, error) {
	opts := tasks.UpdateOptions{
		Title:          req.Title,
		Description:    req.Description,
		Tags:           req.Tags,
		Assignee:       req.Assignee,
		SprintID:       req.SprintID,
		MyDay:          req.MyDay,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		ParentTaskID:   req.ParentTaskID,
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return tasks.UpdateOptions{}, badRequestCode(fmt.Errorf("title cannot be empty"), ErrCodeMissingRequired)
	}
	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			return tasks.UpdateOptions{}, badRequestCode(err, ErrCodeInvalidStatus)
		}
		opts.Status = &status
	}
	if req.Priority != nil {
		priority, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return tasks.UpdateOptions{}, badRequestCode(err, ErrCodeInvalidPriority)
		}
		opts.Priority = &priority
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			opts.DueDate = &time.Time{}
		} else {
			due, err := models.ParseDate(*req.DueDate)
			if err != nil {
				return tasks.UpdateOptions{}, badRequestCode(err, ErrCodeInvalidDate)
			}
			opts.DueDate = &due
		}
	}
	if req.EstimatedHours != nil && *req.EstimatedHours < 0 {
		return tasks.UpdateOptions{}, badRequest(fmt.Errorf("estimated_hours must be >= 0"))
	}
	if req.ActualHours != nil && *req.ActualHours < 0 {
		return tasks.UpdateOptions{}, badRequest(fmt.Errorf("actual_hours must be >= 0"))
	}

	return opts, nil
}

// validateRef checks an optional reference id. Zero is allowed on updates,
// where it clears the reference, but not on create.
func validateRef(id *int, name string) error {
	if id != nil && *id <= 0 {
		return badRequestCode(fmt.Errorf("%s must be > 0", name), ErrCodeInvalidID)
	}
	return nil
}

type sprintCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
}

type planRequest struct {
	Limit int `json:"limit"`
}

func parseListFilter(r *http.Request) (tasks.ListFilter, error) {
	filter := tasks.ListFilter{}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, badRequestCode(err, ErrCodeInvalidStatus)
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(query.Get("priority")); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return filter, badRequestCode(err, ErrCodeInvalidPriority)
		}
		filter.Priority = priority
	}
	if raw := strings.TrimSpace(query.Get("sprint")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return filter, badRequestCode(fmt.Errorf("invalid sprint"), ErrCodeInvalidQuery)
		}
		filter.SprintID = &id
	}
	filter.Assignee = strings.TrimSpace(query.Get("assignee"))
	if raw := strings.TrimSpace(query.Get("my_day")); raw != "" {
		myDay, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, badRequestCode(fmt.Errorf("invalid my_day"), ErrCodeInvalidQuery)
		}
		filter.MyDay = &myDay
	}
	includeDone, err := queryBool(r, "include_done")
	if err != nil {
		return filter, err
	}
	filter.IncludeDone = includeDone

	return filter, nil
}
