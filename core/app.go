package core

import (
	"context"
	"log/slog"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
	"github.com/latticehq/lattice/router"
)

// IdentityProvider is the full provider client surface the handlers use.
// *idp.Client satisfies it; handler tests substitute a mock.
type IdentityProvider interface {
	auth.Provider
	PasswordSignIn(ctx context.Context, email, password string) (*idp.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*idp.Session, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*idp.Session, error)
	UpdateUser(ctx context.Context, accessToken string, params idp.UpdateUserParams) (*idp.Identity, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

var _ IdentityProvider = (*idp.Client)(nil)

// App is the application wide context. Database pools, the provider client
// and the other permanent objects live here; all handlers have App as
// receiver.
type App struct {
	dbApp          db.DbApp
	router         router.Router
	configProvider *config.Provider
	logger         *slog.Logger
	idp            IdentityProvider
	sessions       *auth.SessionAuthenticator
	mirror         *auth.Mirror
	oauth          *auth.OAuthCoordinator
	authenticator  Authenticator
	validator      Validator
}

func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) Db() db.DbApp {
	return a.dbApp
}

func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbApp = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) ConfigProvider() *config.Provider {
	return a.configProvider
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

func (a *App) Idp() IdentityProvider {
	return a.idp
}

func (a *App) SetIdp(p IdentityProvider) {
	a.idp = p
}

func (a *App) Sessions() *auth.SessionAuthenticator {
	return a.sessions
}

func (a *App) SetSessions(s *auth.SessionAuthenticator) {
	a.sessions = s
}

func (a *App) Mirror() *auth.Mirror {
	return a.mirror
}

func (a *App) SetMirror(m *auth.Mirror) {
	a.mirror = m
}

func (a *App) OAuth() *auth.OAuthCoordinator {
	return a.oauth
}

func (a *App) SetOAuth(c *auth.OAuthCoordinator) {
	a.oauth = c
}

func (a *App) Auth() Authenticator {
	return a.authenticator
}

func (a *App) SetAuthenticator(auth Authenticator) {
	a.authenticator = auth
}

func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) SetValidator(v Validator) {
	a.validator = v
}
