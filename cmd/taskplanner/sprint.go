package main

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newSprintCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	sprintCmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
	}

	var (
		description string
		dueOn       string
	)
	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a sprint",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var due *time.Time
			if dueOn != "" {
				parsed, err := models.ParseDate(dueOn)
				if err != nil {
					return err
				}
				due = &parsed
			}
			return withRepository(cfg, func(repo *tasks.Repository) error {
				sprint, err := repo.CreateSprint(cmd.Context(), strings.Join(args, " "), description, due)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(sprint)
				}
				return writePlain("%d\n", sprint.ID)
			})
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "sprint description")
	createCmd.Flags().StringVar(&dueOn, "due", "", "due date (YYYY-MM-DD)")

	var includeClosed bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				sprints, err := repo.ListSprints(cmd.Context(), includeClosed)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(sprints)
				}
				return writeSprintList(sprints)
			})
		},
	}
	listCmd.Flags().BoolVarP(&includeClosed, "all", "a", false, "include closed sprints")

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a sprint",
		Args:  requireExactlyOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRepository(cfg, func(repo *tasks.Repository) error {
				sprint, err := repo.CloseSprint(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(sprint)
				}
				return writePlain("%d closed\n", sprint.ID)
			})
		},
	}

	sprintCmd.AddCommand(createCmd, listCmd, closeCmd)
	return sprintCmd
}
