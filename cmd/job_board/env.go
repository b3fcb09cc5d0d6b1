package main

import (
	"fmt"
	"os"

	"github.com/daniel/job-board/internal/backend"
	"github.com/daniel/job-board/internal/config"
	"github.com/daniel/job-board/internal/observability"
	"github.com/daniel/job-board/internal/session"
)

// env bundles what every subcommand needs: config, a backend client, the
// hydrated session store, and a printer.
type env struct {
	cfg     *config.Config
	client  *backend.Client
	store   *session.Store
	printer *observability.Printer
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(cfg.BackendURL, backend.WithTimeout(cfg.HTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}

	store := session.NewStore(client, cfg.StateFile)
	store.Hydrate()

	return &env{
		cfg:     cfg,
		client:  client,
		store:   store,
		printer: observability.NewPrinter(os.Stdout),
	}, nil
}

// requireAdmin enforces the dashboard access contract on reviewer commands.
func (e *env) requireAdmin() error {
	dest, ok := e.store.Authorize(session.RoleAdmin)
	if ok {
		return nil
	}
	if dest == session.DestLogin {
		return fmt.Errorf("not signed in; run `job_board login` first")
	}
	return fmt.Errorf("this command requires an admin account")
}
