package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
	"github.com/howmon/taskplanner/internal/views"
)

func newMyDayCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "myday",
		Short: "Show today's focus list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				list, err := repo.List(cmd.Context(), tasks.ListFilter{})
				if err != nil {
					return err
				}

				view := views.MyDay(list, time.Now())
				if *jsonOutput {
					return writeJSON(view)
				}
				return writeMyDayView(view)
			})
		},
	}

	cmd.AddCommand(newMyDaySetCmd(cfg, jsonOutput, "add", true))
	cmd.AddCommand(newMyDaySetCmd(cfg, jsonOutput, "rm", false))
	return cmd
}

func newMyDaySetCmd(cfg *config.Config, jsonOutput *bool, use string, flag bool) *cobra.Command {
	short := "Flag tasks for today's focus list"
	if !flag {
		short = "Unflag tasks from today's focus list"
	}
	return &cobra.Command{
		Use:   use + " <id> [<id>...]",
		Short: short,
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withRepository(cfg, func(repo *tasks.Repository) error {
				myDay := flag
				updated := make([]models.Task, 0, len(ids))
				for _, id := range ids {
					task, err := repo.Update(cmd.Context(), id, tasks.UpdateOptions{MyDay: &myDay})
					if err != nil {
						return err
					}
					updated = append(updated, task)
				}
				if *jsonOutput {
					return writeJSON(updated)
				}
				return writeTaskList(updated)
			})
		},
	}
}

func writeMyDayView(view views.MyDayView) error {
	sections := []struct {
		name  string
		tasks []models.Task
	}{
		{"focus", view.Focus},
		{"overdue", view.Overdue},
		{"due today", view.DueToday},
		{"in progress", view.InProgress},
	}
	for _, section := range sections {
		if len(section.tasks) == 0 {
			continue
		}
		if err := writePlain("%s:\n", section.name); err != nil {
			return err
		}
		for _, task := range section.tasks {
			if err := writePlain("  %s\n", formatTaskLine(task)); err != nil {
				return err
			}
		}
	}
	return writePlain("total focus: %d\n", view.TotalFocus)
}
