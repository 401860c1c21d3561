package main

import (
	"fmt"
	"log/slog"

	"github.com/howmon/taskplanner/internal/config"
	"github.com/howmon/taskplanner/internal/issues"
	"github.com/howmon/taskplanner/internal/tasks"
)

// withRepository validates the configuration, wires the configured transport
// and hands the repository to fn. Every command that touches the remote
// tracker goes through here.
func withRepository(cfg *config.Config, fn func(*tasks.Repository) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	return fn(tasks.New(store, slog.Default()))
}

func newStore(cfg *config.Config) (issues.Store, error) {
	switch cfg.Transport {
	case config.TransportCLI:
		return issues.NewCLIStore(cfg.Repo), nil
	case config.TransportREST:
		return issues.NewRESTStore(cfg.APIURL, cfg.Repo, cfg.Token), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
