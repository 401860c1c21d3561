package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/notify"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newNotifyCmd(cfg *config.Config) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Announce due and overdue tasks via desktop notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := cfg.NotifyInterval()
			if err != nil {
				return err
			}

			return withRepository(cfg, func(repo *tasks.Repository) error {
				ledger, err := notify.OpenLedger(cfg.Notify.LedgerPath)
				if err != nil {
					return err
				}
				defer ledger.Close()

				logger := slog.Default().With("component", "notify")
				notifier := notify.New(repo, ledger, notify.NewDesktopSender(cfg.Notify.Command), logger)

				if once {
					return notifier.Tick(cmd.Context())
				}
				logger.Info("notification loop started", "interval", interval)
				return notifier.Run(cmd.Context(), interval)
			})
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single tick and exit")
	return cmd
}
