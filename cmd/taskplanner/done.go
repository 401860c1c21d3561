package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newDoneCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id> [<id>...]",
		Short: "Mark tasks as done",
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withRepository(cfg, func(repo *tasks.Repository) error {
				status := models.StatusDone
				updated := make([]models.Task, 0, len(ids))
				for _, id := range ids {
					task, err := repo.Update(cmd.Context(), id, tasks.UpdateOptions{Status: &status})
					if err != nil {
						return err
					}
					updated = append(updated, task)
				}
				if *jsonOutput {
					if len(updated) == 1 {
						return writeJSON(updated[0])
					}
					return writeJSON(updated)
				}
				return writeTaskList(updated)
			})
		},
	}
}
