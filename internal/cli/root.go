// Package cli wires the membership app together: config, vault, API client,
// photo pipeline and session store behind a cobra command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"annfsu/app/internal/api"
	"annfsu/app/internal/avatar"
	"annfsu/app/internal/config"
	"annfsu/app/internal/ids"
	applog "annfsu/app/internal/log"
	"annfsu/app/internal/session"
	"annfsu/app/internal/storage"
	"annfsu/app/internal/vault"
)

type App struct {
	cfg    *config.AppConfig
	log    zerolog.Logger
	vault  vault.Vault
	client *api.Client
	store  *session.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "annfsu",
		Short:         "ANNFSU membership app",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.AddCommand(
		app.loginCmd(),
		app.otpCmd(),
		app.signupCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.refreshCmd(),
		app.applyCmd(),
		app.photoCmd(),
		app.cardCmd(),
		app.contentCmd(),
		app.contactsCmd(),
		app.songsCmd(),
		app.adminCmd(),
	)

	return root
}

func (a *App) initialize() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = applog.New(cfg.Environment)

	v, err := vault.OpenBolt(cfg.State.Dir)
	if err != nil {
		return err
	}
	a.vault = v

	deviceID, err := v.Get(vault.KeyDeviceID)
	if errors.Is(err, vault.ErrNotFound) {
		deviceID = ids.New()
		if err := v.Set(vault.KeyDeviceID, deviceID); err != nil {
			return fmt.Errorf("register device: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("read device id: %w", err)
	}

	a.client = api.NewClient(cfg.API, deviceID, a.log)

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}
	pipeline := avatar.NewPipeline(objectStore, a.client, a.log)

	a.store = session.NewStore(a.client, v, pipeline, a.log)
	a.store.Load()
	return nil
}

func (a *App) close() {
	if a.vault != nil {
		if err := a.vault.Close(); err != nil {
			a.log.Warn().Err(err).Msg("vault close failed")
		}
	}
}

// requireAuth gates commands that need a logged-in session.
func (a *App) requireAuth() error {
	if !a.store.Authenticated() {
		return errors.New("not logged in; run `annfsu login` first")
	}
	return nil
}
