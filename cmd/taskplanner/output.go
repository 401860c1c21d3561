package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/howmon/taskplanner/internal/format"
	"github.com/howmon/taskplanner/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeTaskList(tasks []models.Task) error {
	for _, task := range tasks {
		if err := writePlain("%s\n", formatTaskLine(task)); err != nil {
			return err
		}
	}
	return nil
}

func formatTaskLine(task models.Task) string {
	line := fmt.Sprintf("%s #%d [%s] %s", statusMarker(task.Status), task.ID, task.Priority, task.Title)
	if task.DueDate != nil {
		line += fmt.Sprintf(" (due %s)", models.FormatDate(*task.DueDate))
	}
	if task.MyDay {
		line += " *"
	}
	return line
}

func statusMarker(status models.Status) string {
	switch status {
	case models.StatusInProgress:
		return "◐"
	case models.StatusDone:
		return "●"
	case models.StatusBlocked:
		return "⊘"
	default:
		return "○"
	}
}

func writeTaskDetail(task models.Task) error {
	lines := []string{
		fmt.Sprintf("id: %d", task.ID),
		fmt.Sprintf("title: %s", task.Title),
		fmt.Sprintf("status: %s", task.Status),
		fmt.Sprintf("priority: %s", task.Priority),
	}

	if task.DueDate != nil {
		lines = append(lines, fmt.Sprintf("due: %s", models.FormatDate(*task.DueDate)))
	}
	if task.Assignee != "" {
		lines = append(lines, fmt.Sprintf("assignee: %s", task.Assignee))
	}
	if task.SprintID != nil {
		lines = append(lines, fmt.Sprintf("sprint: %d", *task.SprintID))
	}
	if len(task.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(task.Tags, ", ")))
	}
	lines = append(lines, fmt.Sprintf("my_day: %t", task.MyDay))
	if task.EstimatedHours > 0 {
		lines = append(lines, fmt.Sprintf("estimated_hours: %g", task.EstimatedHours))
	}
	if task.ActualHours > 0 {
		lines = append(lines, fmt.Sprintf("actual_hours: %g", task.ActualHours))
	}
	if task.ParentTaskID != nil {
		lines = append(lines, fmt.Sprintf("parent: %d", *task.ParentTaskID))
	}
	lines = append(lines,
		fmt.Sprintf("created_at: %s", formatTime(task.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(task.UpdatedAt)),
	)
	if task.URL != "" {
		lines = append(lines, fmt.Sprintf("url: %s", task.URL))
	}
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeSprintList(sprints []models.Sprint) error {
	for _, sprint := range sprints {
		line := fmt.Sprintf("#%d %s [%s] %d open / %d closed", sprint.ID, sprint.Title, sprint.State, sprint.OpenCount, sprint.ClosedCount)
		if sprint.DueOn != nil {
			line += fmt.Sprintf(", due %s", models.FormatDate(*sprint.DueOn))
		}
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
