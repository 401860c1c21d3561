package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/models"
	"github.com/howmon/taskplanner/internal/tasks"
)

type addCmdOptions struct {
	description string
	status      string
	priority    string
	due         string
	tags        []string
	assignee    string
	sprintID    int
	myDay       bool
	estimate    float64
	parentID    int
	filePath    string
}

func newAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &addCmdOptions{}
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, cfg, opts, jsonOutput, args)
		},
	}

	bindAddFlags(cmd, opts)
	return cmd
}

func bindAddFlags(cmd *cobra.Command, opts *addCmdOptions) {
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&opts.status, "status", "", "status (todo, in-progress, done, blocked)")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority (urgent, high, medium, low)")
	cmd.Flags().StringVar(&opts.due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "user tag (repeatable)")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "assignee login")
	cmd.Flags().IntVar(&opts.sprintID, "sprint", 0, "sprint id")
	cmd.Flags().BoolVar(&opts.myDay, "myday", false, "flag for today's focus list")
	cmd.Flags().Float64Var(&opts.estimate, "estimate", 0, "estimated hours")
	cmd.Flags().IntVar(&opts.parentID, "parent", 0, "parent task id")
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "markdown file for batch add")
}

func runAdd(cmd *cobra.Command, cfg *config.Config, opts *addCmdOptions, jsonOutput *bool, args []string) error {
	return withRepository(cfg, func(repo *tasks.Repository) error {
		if opts.filePath != "" {
			return runAddFromFile(cmd, repo, opts.filePath, jsonOutput)
		}
		if len(args) == 0 {
			return errors.New("title is required")
		}

		createOpts, err := opts.createOptions()
		if err != nil {
			return err
		}

		task, err := repo.Create(cmd.Context(), strings.Join(args, " "), createOpts)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(task)
		}
		return writePlain("%d\n", task.ID)
	})
}

func (opts *addCmdOptions) createOptions() (tasks.CreateOptions, error) {
	createOpts := tasks.CreateOptions{
		Description:    opts.description,
		Tags:           opts.tags,
		Assignee:       opts.assignee,
		MyDay:          opts.myDay,
		EstimatedHours: opts.estimate,
	}

	if opts.status != "" {
		status, err := models.ParseStatus(opts.status)
		if err != nil {
			return tasks.CreateOptions{}, err
		}
		createOpts.Status = status
	}
	if opts.priority != "" {
		priority, err := models.ParsePriority(opts.priority)
		if err != nil {
			return tasks.CreateOptions{}, err
		}
		createOpts.Priority = priority
	}
	if opts.due != "" {
		due, err := models.ParseDate(opts.due)
		if err != nil {
			return tasks.CreateOptions{}, err
		}
		createOpts.DueDate = &due
	}
	if opts.estimate < 0 {
		return tasks.CreateOptions{}, errors.New("estimate must be >= 0")
	}
	if opts.sprintID > 0 {
		sprintID := opts.sprintID
		createOpts.SprintID = &sprintID
	}
	if opts.parentID > 0 {
		parentID := opts.parentID
		createOpts.ParentTaskID = &parentID
	}

	return createOpts, nil
}

// runAddFromFile creates one task per markdown list item, with defaults taken
// from the file's YAML front matter.
func runAddFromFile(cmd *cobra.Command, repo *tasks.Repository, filePath string, jsonOutput *bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	frontMatter, items, err := parseMarkdown(string(data))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no list items found in %s", filePath)
	}

	defaults, err := frontMatterToOptions(frontMatter)
	if err != nil {
		return err
	}

	created := make([]models.Task, 0, len(items))
	for _, item := range items {
		task, err := repo.Create(cmd.Context(), item, defaults)
		if err != nil {
			return err
		}
		created = append(created, task)
	}

	if *jsonOutput {
		return writeJSON(created)
	}
	for _, task := range created {
		if err := writePlain("%d\n", task.ID); err != nil {
			return err
		}
	}
	return nil
}
