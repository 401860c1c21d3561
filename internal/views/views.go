// Package views computes the derived read models: canonical ordering, the
// daily focus partition, board grouping, and aggregate analytics. Everything
// here is a pure function over an already-fetched task list; nothing touches
// the remote store and nothing errors.
package views

import (
	"math"
	"sort"
	"time"

	"github.com/howmon/taskplanner/internal/models"
)

// Sort orders tasks in place by priority rank (urgent first), then due date
// ascending with undated tasks after all dated ones, keeping the original
// order of ties.
func Sort(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return false
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}

// MyDayView is today's focus list, split into disjoint buckets.
type MyDayView struct {
	Focus      []models.Task `json:"focus"`
	Overdue    []models.Task `json:"overdue"`
	DueToday   []models.Task `json:"due_today"`
	InProgress []models.Task `json:"in_progress"`
	TotalFocus int           `json:"total_focus"`
}

// MyDay partitions incomplete tasks for the given day. Precedence per task:
// explicit flag, then overdue, then due today, then in progress; a task lands
// in exactly one bucket and tasks matching none are left out. TotalFocus
// counts the flagged, overdue and due-today buckets.
func MyDay(tasks []models.Task, today time.Time) MyDayView {
	view := MyDayView{
		Focus:      []models.Task{},
		Overdue:    []models.Task{},
		DueToday:   []models.Task{},
		InProgress: []models.Task{},
	}
	for _, task := range tasks {
		if task.Done() {
			continue
		}
		switch {
		case task.MyDay:
			view.Focus = append(view.Focus, task)
		case task.DueBefore(today):
			view.Overdue = append(view.Overdue, task)
		case task.DueOn(today):
			view.DueToday = append(view.DueToday, task)
		case task.Status == models.StatusInProgress:
			view.InProgress = append(view.InProgress, task)
		}
	}
	view.TotalFocus = len(view.Focus) + len(view.Overdue) + len(view.DueToday)
	return view
}

// Board groups tasks into the four status columns.
type Board struct {
	Todo       []models.Task `json:"todo"`
	InProgress []models.Task `json:"in_progress"`
	Done       []models.Task `json:"done"`
	Blocked    []models.Task `json:"blocked"`
}

// GroupBoard buckets tasks by status. Tasks with a status outside the four
// known values are dropped, not errored on.
func GroupBoard(tasks []models.Task) Board {
	board := Board{
		Todo:       []models.Task{},
		InProgress: []models.Task{},
		Done:       []models.Task{},
		Blocked:    []models.Task{},
	}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusTodo:
			board.Todo = append(board.Todo, task)
		case models.StatusInProgress:
			board.InProgress = append(board.InProgress, task)
		case models.StatusDone:
			board.Done = append(board.Done, task)
		case models.StatusBlocked:
			board.Blocked = append(board.Blocked, task)
		}
	}
	return board
}

// Unassigned is the analytics bucket for tasks with no assignee.
const Unassigned = "unassigned"

// Stats aggregates a task list.
type Stats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByPriority     map[string]int `json:"by_priority"`
	ByAssignee     map[string]int `json:"by_assignee"`
	Overdue        int            `json:"overdue"`
	CompletionRate int            `json:"completion_rate"`
}

// Aggregate computes counts, the overdue total (due before today and not
// done), and the completion percentage. An empty list yields rate 0.
func Aggregate(tasks []models.Task, today time.Time) Stats {
	stats := Stats{
		Total:      len(tasks),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByAssignee: map[string]int{},
	}
	done := 0
	for _, task := range tasks {
		stats.ByStatus[string(task.Status)]++
		stats.ByPriority[string(task.Priority)]++
		assignee := task.Assignee
		if assignee == "" {
			assignee = Unassigned
		}
		stats.ByAssignee[assignee]++
		if !task.Done() && task.DueBefore(today) {
			stats.Overdue++
		}
		if task.Done() {
			done++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(done) / float64(stats.Total) * 100))
	}
	return stats
}
