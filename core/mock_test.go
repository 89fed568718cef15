package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-jose/go-jose/v4"
	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/db/mock"
	"github.com/latticehq/lattice/idp"
)

var errMockNotConfigured = errors.New("mock: not configured")

// mockIdp implements IdentityProvider with overridable function fields.
type mockIdp struct {
	GetUserFunc              func(ctx context.Context, accessToken string) (*idp.Identity, error)
	RefreshSessionFunc       func(ctx context.Context, refreshToken string) (*idp.Session, error)
	ExchangeCodeFunc         func(ctx context.Context, code, codeVerifier string) (*idp.Session, error)
	SignInURLFunc            func(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error)
	LinkIdentityURLFunc      func(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error)
	UnlinkIdentityFunc       func(ctx context.Context, accessToken, identityID string) error
	KeySetFunc               func(ctx context.Context) (*jose.JSONWebKeySet, error)
	PasswordSignInFunc       func(ctx context.Context, email, password string) (*idp.Session, error)
	SignUpFunc               func(ctx context.Context, email, password, name string) (*idp.Session, error)
	RequestOTPFunc           func(ctx context.Context, email string) error
	VerifyOTPFunc            func(ctx context.Context, email, code string) (*idp.Session, error)
	UpdateUserFunc           func(ctx context.Context, accessToken string, params idp.UpdateUserParams) (*idp.Identity, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
}

var _ IdentityProvider = (*mockIdp)(nil)

func (m *mockIdp) GetUser(ctx context.Context, accessToken string) (*idp.Identity, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) RefreshSession(ctx context.Context, refreshToken string) (*idp.Session, error) {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, refreshToken)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) ExchangeCode(ctx context.Context, code, codeVerifier string) (*idp.Session, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code, codeVerifier)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) SignInURL(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error) {
	if m.SignInURLFunc != nil {
		return m.SignInURLFunc(ctx, provider, redirectTo, state, codeVerifier, scopes)
	}
	return "", errMockNotConfigured
}

func (m *mockIdp) LinkIdentityURL(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error) {
	if m.LinkIdentityURLFunc != nil {
		return m.LinkIdentityURLFunc(ctx, accessToken, provider, redirectTo, state)
	}
	return "", errMockNotConfigured
}

func (m *mockIdp) UnlinkIdentity(ctx context.Context, accessToken, identityID string) error {
	if m.UnlinkIdentityFunc != nil {
		return m.UnlinkIdentityFunc(ctx, accessToken, identityID)
	}
	return errMockNotConfigured
}

func (m *mockIdp) KeySet(ctx context.Context) (*jose.JSONWebKeySet, error) {
	if m.KeySetFunc != nil {
		return m.KeySetFunc(ctx)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) PasswordSignIn(ctx context.Context, email, password string) (*idp.Session, error) {
	if m.PasswordSignInFunc != nil {
		return m.PasswordSignInFunc(ctx, email, password)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) SignUp(ctx context.Context, email, password, name string) (*idp.Session, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password, name)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) RequestOTP(ctx context.Context, email string) error {
	if m.RequestOTPFunc != nil {
		return m.RequestOTPFunc(ctx, email)
	}
	return errMockNotConfigured
}

func (m *mockIdp) VerifyOTP(ctx context.Context, email, code string) (*idp.Session, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) UpdateUser(ctx context.Context, accessToken string, params idp.UpdateUserParams) (*idp.Identity, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, accessToken, params)
	}
	return nil, errMockNotConfigured
}

func (m *mockIdp) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return errMockNotConfigured
}

// mockAuthenticator returns a canned authentication outcome.
type mockAuthenticator struct {
	RA   *RequestAuth
	Resp jsonResponse
	Err  error
}

func (m *mockAuthenticator) Authenticate(r *http.Request) (*RequestAuth, jsonResponse, error) {
	return m.RA, m.Resp, m.Err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testIdentity builds a remote identity with a password credential.
func testIdentity() *idp.Identity {
	return &idp.Identity{
		ID:    "remote-1",
		Email: "user@example.com",
		AppMetadata: idp.AppMetadata{
			Provider:  idp.ProviderEmail,
			Providers: []string{idp.ProviderEmail},
		},
		UserMetadata: idp.UserMetadata{FullName: "Test User"},
		Identities: []idp.LinkedIdentity{
			{IdentityID: "ident-email", Provider: idp.ProviderEmail, ID: "remote-1", UserID: "remote-1"},
		},
	}
}

func testSession(identity *idp.Identity) *idp.Session {
	return &idp.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		User:         identity,
	}
}

func testProfile() *db.Profile {
	return &db.Profile{
		ID:       1,
		RemoteID: "remote-1",
		Email:    "user@example.com",
		Name:     "Test User",
	}
}

// newTestApp wires an App with mocks and default configuration. Tests
// override individual fields afterwards.
func newTestApp(provider *mockIdp, dbm *mock.Db) *App {
	if provider == nil {
		provider = &mockIdp{}
	}
	if dbm == nil {
		dbm = &mock.Db{}
	}

	cfg := config.NewDefaultConfig()
	logger := discardLogger()

	a := &App{}
	a.SetConfigProvider(config.NewProvider(cfg))
	a.SetDb(dbm)
	a.SetLogger(logger)
	a.SetIdp(provider)
	a.SetMirror(auth.NewMirror(dbm, logger))
	a.SetOAuth(auth.NewOAuthCoordinator(provider, a.ConfigProvider(), logger))
	a.SetValidator(NewValidator())
	a.SetAuthenticator(&mockAuthenticator{
		RA: &RequestAuth{
			State: auth.AuthState{
				Authenticated: true,
				Profile:       testProfile(),
				Identity:      testIdentity(),
			},
			AccessToken: "access-token",
		},
	})
	return a
}

// authFailure configures the app's authenticator to reject every request.
func authFailure(a *App, resp jsonResponse) {
	a.SetAuthenticator(&mockAuthenticator{Resp: resp, Err: errors.New("auth error")})
}
