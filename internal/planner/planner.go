// Package planner is the boundary to the natural-language planning
// assistant: task summaries go in, a small ranked pick list plus free text
// comes out. The assistant's answer is advisory and tolerated loosely — picks
// referencing unknown task ids are dropped, never surfaced as errors.
package planner

import (
	"context"

	"github.com/howmon/taskplanner/internal/models"
)

// Summary is the slice of a task the assistant sees.
type Summary struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	DueDate        string  `json:"due_date,omitempty"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
}

// Pick is one ranked suggestion.
type Pick struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Plan is the assistant's answer: ranked picks, a short summary of the
// current state, and an optional tip.
type Plan struct {
	Picks   []Pick `json:"picks"`
	Summary string `json:"summary"`
	Tip     string `json:"tip,omitempty"`
}

// Assistant produces a plan from recently completed and pending summaries.
type Assistant interface {
	Suggest(ctx context.Context, done, pending []Summary) (Plan, error)
}

// Summarize projects tasks into assistant input.
func Summarize(tasks []models.Task) []Summary {
	summaries := make([]Summary, 0, len(tasks))
	for _, task := range tasks {
		summary := Summary{
			ID:             task.ID,
			Title:          task.Title,
			Priority:       string(task.Priority),
			Status:         string(task.Status),
			EstimatedHours: task.EstimatedHours,
		}
		if task.DueDate != nil {
			summary.DueDate = models.FormatDate(*task.DueDate)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// BuildPlan asks the assistant for a plan over the given tasks and cleans the
// answer: picks with ids outside the pending set are dropped, and the list is
// capped at limit when limit is positive.
func BuildPlan(ctx context.Context, assistant Assistant, done, pending []models.Task, limit int) (Plan, error) {
	pendingSummaries := Summarize(pending)
	plan, err := assistant.Suggest(ctx, Summarize(done), pendingSummaries)
	if err != nil {
		return Plan{}, err
	}
	plan.Picks = filterPicks(plan.Picks, pendingSummaries, limit)
	return plan, nil
}

func filterPicks(picks []Pick, pending []Summary, limit int) []Pick {
	known := make(map[int]struct{}, len(pending))
	for _, summary := range pending {
		known[summary.ID] = struct{}{}
	}
	kept := make([]Pick, 0, len(picks))
	for _, pick := range picks {
		if _, ok := known[pick.ID]; !ok {
			continue
		}
		kept = append(kept, pick)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}
