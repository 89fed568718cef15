package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// AuthState is the outcome of authenticating one request.
//
// Exactly one of the cookie directives may be set: NewSession when the
// tokens were rotated and the response must re-issue cookies, ClearSession
// when the session is dead and the cookies must go. Transient means the
// backend could not be reached; the caller must leave the cookies alone so
// the session survives the outage.
type AuthState struct {
	Authenticated bool
	Profile       *db.Profile
	Identity      *idp.Identity
	NewSession    *idp.Session
	ClearSession  bool
	Transient     bool
}

// SessionAuthenticator turns the cookie pair of an incoming request into an
// AuthState, refreshing and mirroring along the way.
type SessionAuthenticator struct {
	verifier *Verifier
	provider Provider
	mirror   *Mirror
	store    db.DbProfile
	logger   *slog.Logger
}

func NewSessionAuthenticator(verifier *Verifier, provider Provider, mirror *Mirror, store db.DbProfile, logger *slog.Logger) *SessionAuthenticator {
	return &SessionAuthenticator{
		verifier: verifier,
		provider: provider,
		mirror:   mirror,
		store:    store,
		logger:   logger,
	}
}

// AuthenticateRequest resolves the access/refresh token pair.
//
// No tokens means anonymous. A valid access token authenticates directly.
// An expired or invalid one is traded in via the refresh token; only a
// definitive rejection of that trade clears the session. Backend outages
// surface as Transient and never log anyone out. The returned error covers
// local failures only (storage, mirroring) and warrants a 500, not a 401.
func (s *SessionAuthenticator) AuthenticateRequest(ctx context.Context, accessToken, refreshToken string) (AuthState, error) {
	if accessToken == "" && refreshToken == "" {
		return AuthState{}, nil
	}

	if accessToken != "" {
		result := s.verifier.Verify(ctx, accessToken)
		switch result.Status {
		case VerifyValid:
			return s.establish(ctx, accessToken, result)
		case VerifyTransient:
			return AuthState{Transient: true}, nil
		}
		// expired or invalid: fall through to the refresh attempt
	}

	if refreshToken == "" {
		return AuthState{ClearSession: true}, nil
	}

	session, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		cerr := Classify(err)
		if cerr.Kind == KindTransient {
			s.logger.Warn("session refresh unreachable", "error", err)
			return AuthState{Transient: true}, nil
		}
		s.logger.Info("session refresh rejected", "error", err)
		return AuthState{ClearSession: true}, nil
	}

	state, err := s.establish(ctx, session.AccessToken, VerifyResult{Status: VerifyValid, Identity: session.User})
	if err != nil {
		return AuthState{}, err
	}
	state.NewSession = session
	return state, nil
}

// establish resolves the identity behind a valid token and mirrors it.
// A locally known subject skips the remote lookup.
func (s *SessionAuthenticator) establish(ctx context.Context, token string, result VerifyResult) (AuthState, error) {
	identity := result.Identity

	if identity == nil && result.Claims != nil {
		profile, err := s.store.GetProfileByRemoteID(result.Claims.Subject)
		if err != nil {
			return AuthState{}, fmt.Errorf("auth: profile lookup failed: %w", err)
		}
		// A token carrying a different email than the mirror means the
		// remote account changed; fall through to a full resync.
		if profile != nil && (result.Claims.Email == "" || result.Claims.Email == profile.Email) {
			return AuthState{Authenticated: true, Profile: profile}, nil
		}
	}

	if identity == nil {
		var err error
		identity, err = s.provider.GetUser(ctx, token)
		if err != nil {
			cerr := Classify(err)
			if cerr.Kind == KindTransient {
				return AuthState{Transient: true}, nil
			}
			return AuthState{ClearSession: true}, nil
		}
	}

	profile, err := s.mirror.Sync(ctx, identity, "")
	if err != nil {
		return AuthState{}, err
	}

	return AuthState{Authenticated: true, Profile: profile, Identity: identity}, nil
}
