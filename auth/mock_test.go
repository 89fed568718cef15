package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/go-jose/go-jose/v4"
	"github.com/latticehq/lattice/idp"
)

// mockProvider implements Provider with overridable function fields.
type mockProvider struct {
	GetUserFunc         func(ctx context.Context, accessToken string) (*idp.Identity, error)
	RefreshSessionFunc  func(ctx context.Context, refreshToken string) (*idp.Session, error)
	ExchangeCodeFunc    func(ctx context.Context, code, codeVerifier string) (*idp.Session, error)
	SignInURLFunc       func(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error)
	LinkIdentityURLFunc func(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error)
	UnlinkIdentityFunc  func(ctx context.Context, accessToken, identityID string) error
	KeySetFunc          func(ctx context.Context) (*jose.JSONWebKeySet, error)
}

var errMockNotConfigured = errors.New("mock: not configured")

func (m *mockProvider) GetUser(ctx context.Context, accessToken string) (*idp.Identity, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, accessToken)
	}
	return nil, errMockNotConfigured
}

func (m *mockProvider) RefreshSession(ctx context.Context, refreshToken string) (*idp.Session, error) {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, refreshToken)
	}
	return nil, errMockNotConfigured
}

func (m *mockProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*idp.Session, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code, codeVerifier)
	}
	return nil, errMockNotConfigured
}

func (m *mockProvider) SignInURL(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error) {
	if m.SignInURLFunc != nil {
		return m.SignInURLFunc(ctx, provider, redirectTo, state, codeVerifier, scopes)
	}
	return "", errMockNotConfigured
}

func (m *mockProvider) LinkIdentityURL(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error) {
	if m.LinkIdentityURLFunc != nil {
		return m.LinkIdentityURLFunc(ctx, accessToken, provider, redirectTo, state)
	}
	return "", errMockNotConfigured
}

func (m *mockProvider) UnlinkIdentity(ctx context.Context, accessToken, identityID string) error {
	if m.UnlinkIdentityFunc != nil {
		return m.UnlinkIdentityFunc(ctx, accessToken, identityID)
	}
	return errMockNotConfigured
}

func (m *mockProvider) KeySet(ctx context.Context) (*jose.JSONWebKeySet, error) {
	if m.KeySetFunc != nil {
		return m.KeySetFunc(ctx)
	}
	return nil, errMockNotConfigured
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
