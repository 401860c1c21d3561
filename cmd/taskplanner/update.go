package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

type updateCmdOptions struct {
	title       string
	description string
	status      string
	priority    string
	due         string
	tags        []string
	assignee    string
	sprintID    int
	myDay       bool
	estimate    float64
	spent       float64
	parentID    int
}

func newUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &updateCmdOptions{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  requireExactlyOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, cfg, opts, jsonOutput, args)
		},
	}

	bindUpdateFlags(cmd, opts)
	return cmd
}

func bindUpdateFlags(cmd *cobra.Command, opts *updateCmdOptions) {
	cmd.Flags().StringVar(&opts.title, "title", "", "new title")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&opts.status, "status", "", "status")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority")
	cmd.Flags().StringVar(&opts.due, "due", "", "due date (YYYY-MM-DD, or none to clear)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "replace user tags (repeatable; give none to clear)")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "assignee (empty to unassign)")
	cmd.Flags().IntVar(&opts.sprintID, "sprint", 0, "sprint id (0 to clear)")
	cmd.Flags().BoolVar(&opts.myDay, "myday", false, "my-day flag")
	cmd.Flags().Float64Var(&opts.estimate, "estimate", 0, "estimated hours")
	cmd.Flags().Float64Var(&opts.spent, "spent", 0, "actual hours")
	cmd.Flags().IntVar(&opts.parentID, "parent", 0, "parent task id (0 to clear)")
}

func runUpdate(cmd *cobra.Command, cfg *config.Config, opts *updateCmdOptions, jsonOutput *bool, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	updateOpts, err := buildUpdateOptions(cmd, opts)
	if err != nil {
		return err
	}
	if updateOpts == (tasks.UpdateOptions{}) {
		return errors.New("no fields to update")
	}

	return withRepository(cfg, func(repo *tasks.Repository) error {
		task, err := repo.Update(cmd.Context(), id, updateOpts)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(task)
		}
		return writePlain("%s\n", formatTaskLine(task))
	})
}

// buildUpdateOptions includes only the flags the user actually set; the
// repository leaves everything else untouched.
func buildUpdateOptions(cmd *cobra.Command, opts *updateCmdOptions) (tasks.UpdateOptions, error) {
	updateOpts := tasks.UpdateOptions{}

	if cmd.Flags().Changed("title") {
		updateOpts.Title = &opts.title
	}
	if cmd.Flags().Changed("description") {
		updateOpts.Description = &opts.description
	}
	if cmd.Flags().Changed("status") {
		status, err := models.ParseStatus(opts.status)
		if err != nil {
			return tasks.UpdateOptions{}, err
		}
		updateOpts.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		priority, err := models.ParsePriority(opts.priority)
		if err != nil {
			return tasks.UpdateOptions{}, err
		}
		updateOpts.Priority = &priority
	}
	if cmd.Flags().Changed("due") {
		if opts.due == "" || opts.due == "none" {
			updateOpts.DueDate = &time.Time{}
		} else {
			due, err := models.ParseDate(opts.due)
			if err != nil {
				return tasks.UpdateOptions{}, err
			}
			updateOpts.DueDate = &due
		}
	}
	if cmd.Flags().Changed("tag") {
		tags := opts.tags
		if len(tags) == 1 && tags[0] == "none" {
			tags = []string{}
		}
		updateOpts.Tags = &tags
	}
	if cmd.Flags().Changed("assignee") {
		updateOpts.Assignee = &opts.assignee
	}
	if cmd.Flags().Changed("sprint") {
		updateOpts.SprintID = &opts.sprintID
	}
	if cmd.Flags().Changed("myday") {
		updateOpts.MyDay = &opts.myDay
	}
	if cmd.Flags().Changed("estimate") {
		if opts.estimate < 0 {
			return tasks.UpdateOptions{}, errors.New("estimate must be >= 0")
		}
		updateOpts.EstimatedHours = &opts.estimate
	}
	if cmd.Flags().Changed("spent") {
		if opts.spent < 0 {
			return tasks.UpdateOptions{}, errors.New("spent must be >= 0")
		}
		updateOpts.ActualHours = &opts.spent
	}
	if cmd.Flags().Changed("parent") {
		updateOpts.ParentTaskID = &opts.parentID
	}

	return updateOpts, nil
}
