package cmd

import (
	"context"

	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/config"
	"github.com/cesi-vents/vents/db"
	"github.com/cesi-vents/vents/guard"
	"github.com/cesi-vents/vents/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app wires the configuration, the token store, the HTTP client, and the
// session controller together for one command invocation.
type app struct {
	cfg        *config.Config
	api        *client.Client
	store      db.CredentialRepository
	profiles   db.ProfileCacheRepository
	controller *session.Controller
}

// newApp builds the command wiring on top of the already-opened database.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	store := db.NewCredentialRepository(db.Db)
	api := client.New(store, client.Options{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.HTTPTimeout,
		AccessTokenTTL:    cfg.AccessTokenTTL,
		RefreshTokenTTL:   cfg.RefreshTokenTTL,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	return &app{
		cfg:        cfg,
		api:        api,
		store:      store,
		profiles:   db.NewProfileCacheRepository(db.Db),
		controller: session.NewController(api, store),
	}, nil
}

// requireSession restores the persisted session and checks the requirement
// against it. It prints the appropriate message and returns false when the
// command must not proceed.
func requireSession(ctx context.Context, cmd *cobra.Command, a *app, req guard.Requirement) bool {
	if err := a.controller.Restore(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to restore session")
	}

	state := a.controller.Current()
	role := guard.RoleUnknown
	if state.Profile != nil {
		role = guard.ParseRole(state.Profile.Role)
	}

	switch guard.Decide(state.Status, role, req) {
	case guard.Allow:
		return true
	case guard.RedirectUnauthorized:
		cmd.PrintErrln("Error: Your account does not have permission to do this.")
		return false
	default:
		cmd.PrintErrln("Error: You are not logged in. Use `vents login` first.")
		return false
	}
}
