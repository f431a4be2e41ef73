// Package cli implements the interactive terminal front-end of the portal
// client. It is a thin consumer of the session store: every command maps to
// one store operation and renders the resulting session state.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/cdcsn/portal/internal/logging"
	"github.com/cdcsn/portal/internal/portal/api"
	"github.com/cdcsn/portal/internal/portal/config"
	"github.com/cdcsn/portal/internal/portal/localdb"
	sessionrepo "github.com/cdcsn/portal/internal/portal/repositories/session"
	"github.com/cdcsn/portal/internal/portal/services"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	store  *services.SessionStore
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := localdb.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	repo := sessionrepo.NewSQLiteRepository(db)
	apiClient := api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
	store := services.NewSessionStore(apiClient, repo, logger, cfg.DeviceName)

	if err := store.Restore(ctx); err != nil {
		// A broken local database must not block a fresh login.
		logger.Warn(ctx, "could not restore persisted session", "error", err)
	}

	return &App{
		config: cfg,
		store:  store,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.Session().IsAuthenticated
}
