package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
	"github.com/howmon/taskplanner/internal/views"
)

func newBoardCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				list, err := repo.List(cmd.Context(), tasks.ListFilter{IncludeDone: true})
				if err != nil {
					return err
				}

				board := views.GroupBoard(list)
				if *jsonOutput {
					return writeJSON(board)
				}
				return writeBoard(board)
			})
		},
	}
}

func writeBoard(board views.Board) error {
	columns := []struct {
		name  string
		tasks []models.Task
	}{
		{"todo", board.Todo},
		{"in-progress", board.InProgress},
		{"blocked", board.Blocked},
		{"done", board.Done},
	}
	for _, column := range columns {
		if err := writePlain("%s (%d):\n", column.name, len(column.tasks)); err != nil {
			return err
		}
		for _, task := range column.tasks {
			if err := writePlain("  %s\n", formatTaskLine(task)); err != nil {
				return err
			}
		}
	}
	return nil
}
