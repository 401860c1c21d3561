package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/howmon/taskplanner/internal/models"
)

// Result counts what one sync pass did.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Sync mirrors the due-dated incomplete tasks in list into the calendar.
// Tasks without a due date and completed tasks are skipped; existing events
// are patched only when something visible changed.
func (c *Client) Sync(ctx context.Context, list []models.Task) (Result, error) {
	var res Result
	for _, task := range list {
		if task.Done() || task.DueDate == nil {
			res.Skipped++
			continue
		}

		target := eventForTask(task)
		existing, err := c.findEvent(ctx, task.ID)
		if err != nil {
			return res, err
		}
		if existing == nil {
			if _, err := c.srv.Events.Insert(c.calendarID, target).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("insert event for task %d: %w", task.ID, err)
			}
			res.Created++
			continue
		}

		patch := eventPatch(existing, target)
		if patch == nil {
			res.Skipped++
			continue
		}
		if _, err := c.srv.Events.Patch(c.calendarID, existing.Id, patch).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("update event for task %d: %w", task.ID, err)
		}
		res.Updated++
	}
	return res, nil
}

// eventForTask builds the all-day event for a due-dated task. Google all-day
// events use an exclusive end date.
func eventForTask(task models.Task) *calendarapi.Event {
	day := models.FormatDate(*task.DueDate)
	next := models.FormatDate(task.DueDate.AddDate(0, 0, 1))

	return &calendarapi.Event{
		Summary:      task.Title,
		Description:  eventDescription(task),
		Transparency: "transparent",
		Start:        &calendarapi.EventDateTime{Date: day},
		End:          &calendarapi.EventDateTime{Date: next},
		ExtendedProperties: &calendarapi.EventExtendedProperties{
			Private: map[string]string{taskPropertyKey: strconv.Itoa(task.ID)},
		},
	}
}

func eventDescription(task models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\nPriority: %s\n", task.Status, task.Priority)
	if len(task.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	if task.EstimatedHours > 0 {
		fmt.Fprintf(&b, "Estimate: %gh\n", task.EstimatedHours)
	}
	if task.URL != "" {
		fmt.Fprintf(&b, "%s\n", task.URL)
	}
	return b.String()
}

// eventPatch returns a partial event carrying the fields that differ, or nil
// when the existing event already matches.
func eventPatch(existing, target *calendarapi.Event) *calendarapi.Event {
	patch := &calendarapi.Event{}
	changed := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		changed = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		changed = true
	}
	if startDate(existing) != startDate(target) || endDate(existing) != endDate(target) {
		patch.Start = target.Start
		patch.End = target.End
		changed = true
	}

	if !changed {
		return nil
	}
	return patch
}

func startDate(event *calendarapi.Event) string {
	if event.Start == nil {
		return ""
	}
	return event.Start.Date
}

func endDate(event *calendarapi.Event) string {
	if event.End == nil {
		return ""
	}
	return event.End.Date
}
