package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		status      string
		priority    string
		sprintID    int
		assignee    string
		myDay       bool
		includeDone bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				filter := tasks.ListFilter{
					Assignee:    assignee,
					IncludeDone: includeDone,
				}
				if status != "" {
					parsed, err := models.ParseStatus(status)
					if err != nil {
						return err
					}
					filter.Status = parsed
				}
				if priority != "" {
					parsed, err := models.ParsePriority(priority)
					if err != nil {
						return err
					}
					filter.Priority = parsed
				}
				if sprintID > 0 {
					filter.SprintID = &sprintID
				}
				if cmd.Flags().Changed("myday") {
					filter.MyDay = &myDay
				}

				list, err := repo.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(list)
				}
				return writeTaskList(list)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&priority, "priority", "", "priority filter")
	cmd.Flags().IntVar(&sprintID, "sprint", 0, "sprint filter")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee filter")
	cmd.Flags().BoolVar(&myDay, "myday", false, "my-day flag filter")
	cmd.Flags().BoolVarP(&includeDone, "all", "a", false, "include completed tasks")

	return cmd
}
