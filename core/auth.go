package core

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/config"
)

// RequestAuth is the resolved authentication state of one request, as the
// handlers consume it. State carries the cookie directives the response must
// apply.
type RequestAuth struct {
	State       auth.AuthState
	AccessToken string
}

// Authenticator defines the interface for authentication operations
type Authenticator interface {
	Authenticate(r *http.Request) (*RequestAuth, jsonResponse, error)
}

// DefaultAuthenticator resolves the session cookie pair (or a bearer header)
// through the session authenticator.
type DefaultAuthenticator struct {
	sessions       *auth.SessionAuthenticator
	configProvider *config.Provider
	logger         *slog.Logger
}

func NewDefaultAuthenticator(sessions *auth.SessionAuthenticator, configProvider *config.Provider, logger *slog.Logger) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		sessions:       sessions,
		configProvider: configProvider,
		logger:         logger,
	}
}

// requestTokens extracts the token pair. Cookies are primary; a bearer
// Authorization header serves non-browser clients and carries no refresh
// token.
func requestTokens(r *http.Request, cfg config.Session) (accessToken, refreshToken string) {
	accessToken, refreshToken = readSessionCookies(r, cfg)
	if accessToken == "" {
		authHeader := r.Header.Get("Authorization")
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			accessToken = token
		}
	}
	return accessToken, refreshToken
}

// Authenticate implements the Authenticator interface. The error is non-nil
// whenever the request did not authenticate; the jsonResponse then holds the
// response to write. A transient state maps to 503, never to a cookie wipe.
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*RequestAuth, jsonResponse, error) {
	errAuth := errors.New("auth error")

	cfg := a.configProvider.Get()
	accessToken, refreshToken := requestTokens(r, cfg.Session)
	if accessToken == "" && refreshToken == "" {
		return nil, errorNoSession, errAuth
	}

	state, err := a.sessions.AuthenticateRequest(r.Context(), accessToken, refreshToken)
	if err != nil {
		a.logger.Error("request authentication failed", "error", err)
		return nil, errorInternal, errAuth
	}

	ra := &RequestAuth{State: state, AccessToken: accessToken}
	if state.NewSession != nil {
		ra.AccessToken = state.NewSession.AccessToken
	}

	if state.Transient {
		return ra, errorServiceUnavailable, errAuth
	}
	if !state.Authenticated {
		return ra, errorNoSession, errAuth
	}
	return ra, jsonResponse{}, nil
}
