// Package cli is the interactive front end. It consumes the session store's
// decisions and the access gate verbatim; nothing here owns identity state.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/macromind-app/macromind-cli/internal/api"
	"github.com/macromind-app/macromind-cli/internal/config"
	"github.com/macromind-app/macromind-cli/internal/credstore"
	"github.com/macromind-app/macromind-cli/internal/logging"
	"github.com/macromind-app/macromind-cli/internal/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	session *session.Store
	log     logging.Logger
	reader  *bufio.Reader
}

// NewApp wires the whole client: credential database, auth gateway with the
// refresh interceptor, and the session store on top of both.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := credstore.Open(ctx, cfg.CredentialDB)
	if err != nil {
		return nil, err
	}

	creds := credstore.NewSQLiteStore(db)
	gateway := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout, log)
	store := session.New(creds, gateway, log)

	return &App{
		config:  cfg,
		session: store,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run performs the startup identity check and enters the command loop.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}
