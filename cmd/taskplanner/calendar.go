package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/calendar"
	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newCalendarCmd(cfg *config.Config) *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Sync tasks to Google Calendar",
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror due-dated tasks as all-day events",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}

			return withRepository(cfg, func(repo *tasks.Repository) error {
				client, err := calendar.NewClient(cmd.Context(), dir, cfg.Calendar.Name)
				if err != nil {
					return err
				}

				list, err := repo.List(cmd.Context(), tasks.ListFilter{})
				if err != nil {
					return err
				}

				result, err := client.Sync(cmd.Context(), list)
				if err != nil {
					return err
				}
				return writePlain("created %d, updated %d, skipped %d\n", result.Created, result.Updated, result.Skipped)
			})
		},
	}

	calendarCmd.AddCommand(syncCmd)
	return calendarCmd
}
