package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id> [<id>...]",
		Short: "Remove tasks from the backlog (closed as not planned)",
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withRepository(cfg, func(repo *tasks.Repository) error {
				for _, id := range ids {
					if err := repo.SoftDelete(cmd.Context(), id); err != nil {
						return err
					}
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"removed": ids})
				}
				for _, id := range ids {
					if err := writePlain("%d\n", id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
