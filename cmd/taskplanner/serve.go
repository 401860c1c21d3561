package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/planner"
	"github.com/howmon/taskplanner/internal/server"
	"github.com/howmon/taskplanner/internal/tasks"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Web.Addr
			}
			listenAddr, err := server.ListenAddr(addr)
			if err != nil {
				return err
			}

			return withRepository(cfg, func(repo *tasks.Repository) error {
				logger := slog.Default().With("component", "server")

				opts := server.Options{
					MaxPicks:     cfg.Assistant.MaxPicks,
					PasswordHash: cfg.Web.PasswordHash,
				}
				// Without an API key the plan endpoint reports itself as
				// unconfigured instead of failing on every call.
				if key := os.Getenv(anthropicKeyEnvKey); key != "" {
					opts.Assistant = planner.NewAnthropicAssistant(key, cfg.Assistant.Model)
				}

				return server.New(listenAddr, repo, opts, logger).ListenAndServe()
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
