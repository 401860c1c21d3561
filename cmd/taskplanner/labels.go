package main

import (
	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/labels"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newLabelsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "Show the system label vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := labels.All()
			if *jsonOutput {
				return writeJSON(defs)
			}
			for _, def := range defs {
				if err := writePlain("%s\t#%s\t%s\n", def.Name, def.Color, def.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision missing system labels in the repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(cfg, func(repo *tasks.Repository) error {
				created, err := repo.ProvisionLabels(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"created": created})
				}
				if len(created) == 0 {
					return writePlain("all system labels already present\n")
				}
				for _, name := range created {
					if err := writePlain("created %s\n", name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	labelsCmd.AddCommand(setupCmd)
	return labelsCmd
}
