package lattice

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-jose/go-jose/v4"
	"github.com/latticehq/lattice/auth"
	ristretto "github.com/latticehq/lattice/cache/ristretto"
	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/core"
	"github.com/latticehq/lattice/db/zombiezen"
	"github.com/latticehq/lattice/idp"
	"github.com/latticehq/lattice/migrations"
	"github.com/latticehq/lattice/router/httprouter"
	"github.com/latticehq/lattice/server"
)

// New builds the application from a config file path and returns the wired
// App plus a Server ready to Run.
func New(configPath string) (*core.App, *server.Server, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	configProvider := config.NewProvider(cfg)

	pool, err := NewZombiezenPerformancePool(cfg.DBFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	dbApp, err := zombiezen.New(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	if err := dbApp.Migrate(context.Background(), migrations.Schema()); err != nil {
		dbApp.Close()
		return nil, nil, fmt.Errorf("applying migrations: %w", err)
	}

	idpClient := idp.NewClient(cfg.Idp, logger)

	keyCache, err := ristretto.New[*jose.JSONWebKeySet]("small")
	if err != nil {
		dbApp.Close()
		return nil, nil, fmt.Errorf("creating key cache: %w", err)
	}

	verifier := auth.NewVerifier(idpClient, keyCache, cfg.Idp.KeySetTTL.Duration, cfg.Idp.Issuer, cfg.Idp.Audience, logger)
	mirror := auth.NewMirror(dbApp, logger)
	sessions := auth.NewSessionAuthenticator(verifier, idpClient, mirror, dbApp, logger)
	coordinator := auth.NewOAuthCoordinator(idpClient, configProvider, logger)

	app := &core.App{}
	app.SetLogger(logger)
	app.SetConfigProvider(configProvider)
	app.SetDb(dbApp)
	app.SetIdp(idpClient)
	app.SetSessions(sessions)
	app.SetMirror(mirror)
	app.SetOAuth(coordinator)
	app.SetAuthenticator(core.NewDefaultAuthenticator(sessions, configProvider, logger))
	app.SetValidator(core.NewValidator())
	app.SetRouter(httprouter.New())

	route(cfg, app)

	srv := server.NewServer(cfg.Server, app.Router(), logger)
	srv.OnShutdown(dbApp.Close)

	return app, srv, nil
}
