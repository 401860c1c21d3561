package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/planner"
	"github.com/howmon/taskplanner/internal/tasks"
)

const anthropicKeyEnvKey = "ANTHROPIC_API_KEY"

func newPlanCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Ask the planning assistant what to focus on today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				pending, err := repo.List(cmd.Context(), tasks.ListFilter{})
				if err != nil {
					return err
				}
				done, err := repo.List(cmd.Context(), tasks.ListFilter{Status: models.StatusDone})
				if err != nil {
					return err
				}

				maxPicks := limit
				if maxPicks <= 0 {
					maxPicks = cfg.Assistant.MaxPicks
				}
				assistant := planner.NewAnthropicAssistant(os.Getenv(anthropicKeyEnvKey), cfg.Assistant.Model)
				plan, err := planner.BuildPlan(cmd.Context(), assistant, done, pending, maxPicks)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(plan)
				}
				return writePlanByID(plan, pending)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of suggestions")
	return cmd
}

func writePlanByID(plan planner.Plan, pending []models.Task) error {
	byID := make(map[int]models.Task, len(pending))
	for _, task := range pending {
		byID[task.ID] = task
	}

	for rank, pick := range plan.Picks {
		task, ok := byID[pick.ID]
		if !ok {
			continue
		}
		if err := writePlain("%d. %s\n   %s\n", rank+1, formatTaskLine(task), pick.Reason); err != nil {
			return err
		}
	}
	if plan.Summary != "" {
		if err := writePlain("\n%s\n", plan.Summary); err != nil {
			return err
		}
	}
	if plan.Tip != "" {
		return writePlain("tip: %s\n", plan.Tip)
	}
	return nil
}
