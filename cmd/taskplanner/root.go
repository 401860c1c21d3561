package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "taskplanner",
		Short: "Taskplanner manages a task backlog stored in GitHub Issues",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newAddCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newUpdateCmd(cfg, &jsonOutput),
		newDoneCmd(cfg, &jsonOutput),
		newRmCmd(cfg, &jsonOutput),
		newMyDayCmd(cfg, &jsonOutput),
		newBoardCmd(cfg, &jsonOutput),
		newStatsCmd(cfg, &jsonOutput),
		newPlanCmd(cfg, &jsonOutput),
		newSprintCmd(cfg, &jsonOutput),
		newLabelsCmd(cfg, &jsonOutput),
		newCalendarCmd(cfg),
		newConfigCmd(cfg),
		newServeCmd(cfg),
		newNotifyCmd(cfg),
	)

	return cmd
}
