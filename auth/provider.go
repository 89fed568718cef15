package auth

import (
	"context"

	"github.com/go-jose/go-jose/v4"
	"github.com/latticehq/lattice/idp"
)

// Provider is the slice of the identity provider client this package uses.
// *idp.Client satisfies it; tests substitute a mock.
type Provider interface {
	GetUser(ctx context.Context, accessToken string) (*idp.Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (*idp.Session, error)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*idp.Session, error)
	SignInURL(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error)
	LinkIdentityURL(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error)
	UnlinkIdentity(ctx context.Context, accessToken, identityID string) error
	KeySet(ctx context.Context) (*jose.JSONWebKeySet, error)
}

var _ Provider = (*idp.Client)(nil)
