package main

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/tasks"
	"github.com/howmon/taskplanner/internal/views"
)

func newStatsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backlog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				list, err := repo.List(cmd.Context(), tasks.ListFilter{IncludeDone: true})
				if err != nil {
					return err
				}

				stats := views.Aggregate(list, time.Now())
				if *jsonOutput {
					return writeJSON(stats)
				}
				return writeStats(stats)
			})
		},
	}
}

func writeStats(stats views.Stats) error {
	if err := writePlain("total: %d\n", stats.Total); err != nil {
		return err
	}
	if err := writeCountMap("by status", stats.ByStatus); err != nil {
		return err
	}
	if err := writeCountMap("by priority", stats.ByPriority); err != nil {
		return err
	}
	if err := writeCountMap("by assignee", stats.ByAssignee); err != nil {
		return err
	}
	if err := writePlain("overdue: %d\n", stats.Overdue); err != nil {
		return err
	}
	return writePlain("completion: %d%%\n", stats.CompletionRate)
}

func writeCountMap(name string, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	if err := writePlain("%s:\n", name); err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := writePlain("  %s: %d\n", key, counts[key]); err != nil {
			return err
		}
	}
	return nil
}
