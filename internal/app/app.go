// Package app builds the shared client-side components from configuration:
// token store, HTTP client, API modules, session, router and dashboard.
package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/api"
	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/dashboard"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/session"
	"github.com/clubdesk/console/internal/tokenstore"
)

// App holds the wired components
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Tokens    tokenstore.Store
	Client    *client.Client
	API       *api.API
	Session   *session.Store
	Router    *router.Router
	Dashboard *dashboard.Adapter

	closers []func() error
}

// New wires every component. Notices raised by failed requests go to notifier.
func New(cfg *config.Config, notifier notify.Notifier, logger zerolog.Logger) (*App, error) {
	tokens, err := OpenTokens(cfg.Token, cfg.API.Origin)
	if err != nil {
		return nil, err
	}

	c := client.New(client.Options{
		BaseURL:  cfg.API.URL(),
		Timeout:  cfg.API.Timeout,
		Tokens:   tokens,
		Notifier: notifier,
		Logger:   logger,
	})
	modules := api.New(c)

	a := &App{
		Config: cfg,
		Logger: logger,
		Tokens: tokens,
		Client: c,
		API:    modules,
	}

	persister, closer, err := OpenPersister(cfg.Session)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.Session = session.New(modules.User, tokens, persister, logger)
	if err := a.Session.Restore(); err != nil {
		logger.Warn().Err(err).Msg("Starting with an empty session")
	}

	// The router reads the session, and the client navigates through the router on 401
	a.Router = router.New(router.DefaultTable(), a.Session, logger)
	c.SetNavigator(a.Router)
	c.SetOnUnauthorized(a.Session.Expire)

	// The snapshot belongs to whoever was logged in when it was loaded
	a.Dashboard = dashboard.NewAdapter(NewProvider(cfg.Dashboard, modules, a.Session), logger)
	a.Session.OnChange(a.Dashboard.Invalidate)

	logger.Debug().
		Str("api", cfg.API.URL()).
		Str("token_backend", cfg.Token.Backend).
		Str("session_backend", cfg.Session.Backend).
		Str("dashboard_provider", cfg.Dashboard.Provider).
		Msg("Components wired")

	return a, nil
}

// Close releases storage handles
func (a *App) Close() error {
	var errs []error
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenTokens returns the configured token store. Keyring entries are scoped by API origin.
func OpenTokens(cfg config.TokenConfig, origin string) (tokenstore.Store, error) {
	switch cfg.Backend {
	case "memory":
		return tokenstore.NewMemory(""), nil
	case "file":
		path := cfg.Path
		if path == "" {
			p, err := tokenstore.DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return tokenstore.NewFile(path), nil
	case "keyring", "":
		return tokenstore.NewKeyring(origin), nil
	}
	return nil, fmt.Errorf("unknown token backend %q", cfg.Backend)
}

// OpenPersister returns the configured session persister and an optional closer
func OpenPersister(cfg config.SessionConfig) (session.Persister, func() error, error) {
	path := cfg.Path
	if path == "" {
		p, err := session.DefaultFilePath()
		if err != nil {
			return nil, nil, err
		}
		path = p
		if cfg.Backend == "sqlite" {
			path = filepath.Join(filepath.Dir(p), "session.db")
		}
	}

	switch cfg.Backend {
	case "sqlite":
		p, err := session.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case "file", "":
		return session.NewFilePersister(path), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}

// NewProvider returns the configured dashboard provider.
// Pending applications are only requested for admins.
func NewProvider(cfg config.DashboardConfig, modules *api.API, sess *session.Store) dashboard.Provider {
	if cfg.Provider == "mock" {
		return dashboard.NewMockProvider(cfg.Seed)
	}
	return &dashboard.APIProvider{
		Clubs:        modules.Club,
		Activities:   modules.Activity,
		Applications: modules.Admin,
		CanReview:    sess.IsAdmin,
	}
}
