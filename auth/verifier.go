package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/latticehq/lattice/cache"
	"github.com/latticehq/lattice/idp"
	"golang.org/x/sync/singleflight"
)

// VerifyStatus is the outcome of verifying one access token.
type VerifyStatus int

const (
	VerifyValid VerifyStatus = iota
	VerifyExpired
	VerifyInvalid
	VerifyTransient
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyValid:
		return "valid"
	case VerifyExpired:
		return "expired"
	case VerifyInvalid:
		return "invalid"
	case VerifyTransient:
		return "transient"
	}
	return "unknown"
}

// Claims is the verified subset of token claims the rest of the subsystem
// needs. Subject is the remote identity id.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// VerifyResult is never Valid without Claims (local path) or Identity
// (remote introspection path), so callers need no follow-up identity fetch.
type VerifyResult struct {
	Status   VerifyStatus
	Claims   *Claims
	Identity *idp.Identity
}

const keySetCacheKey = "idp_jwks"

// Verifier validates access tokens locally against the provider's cached key
// set, with remote introspection as a fallback for local invalidity (which
// recovers from key-set staleness without forcing a refresh).
type Verifier struct {
	provider Provider
	// keys is process-wide shared state: safe for concurrent reads, filled
	// lazily at most once per TTL window via the singleflight group.
	keys     cache.Cache[string, *jose.JSONWebKeySet]
	keyGroup singleflight.Group
	keyTTL   time.Duration
	issuer   string
	audience string
	logger   *slog.Logger
}

func NewVerifier(provider Provider, keys cache.Cache[string, *jose.JSONWebKeySet], keyTTL time.Duration, issuer, audience string, logger *slog.Logger) *Verifier {
	return &Verifier{
		provider: provider,
		keys:     keys,
		keyTTL:   keyTTL,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// keySet returns the cached provider key set, fetching it on first use.
// Concurrent cold-cache callers share one fetch.
func (v *Verifier) keySet(ctx context.Context) (*jose.JSONWebKeySet, error) {
	if ks, ok := v.keys.Get(keySetCacheKey); ok {
		return ks, nil
	}

	result, err, _ := v.keyGroup.Do(keySetCacheKey, func() (any, error) {
		if ks, ok := v.keys.Get(keySetCacheKey); ok {
			return ks, nil
		}
		ks, err := v.provider.KeySet(ctx)
		if err != nil {
			return nil, err
		}
		v.keys.SetWithTTL(keySetCacheKey, ks, 1, v.keyTTL)
		return ks, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*jose.JSONWebKeySet), nil
}

func (v *Verifier) keyFunc(keySet *jose.JSONWebKeySet) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header missing kid")
		}
		matches := keySet.Key(kid)
		if len(matches) == 0 {
			return nil, fmt.Errorf("no key for kid %q", kid)
		}
		return matches[0].Key, nil
	}
}

// Verify runs the local-first verification state machine over one token.
func (v *Verifier) Verify(ctx context.Context, tokenString string) VerifyResult {
	keySet, err := v.keySet(ctx)
	if err != nil {
		// A key-set fetch failure says nothing about the token itself.
		v.logger.Warn("key set fetch failed", "error", err)
		return VerifyResult{Status: VerifyTransient}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	parser := jwt.NewParser(opts...)

	claims := &tokenClaims{}
	_, err = parser.ParseWithClaims(tokenString, claims, v.keyFunc(keySet))
	if err == nil {
		if claims.Subject == "" {
			// A signed token without a subject cannot identify anyone.
			return v.introspect(ctx, tokenString)
		}
		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		return VerifyResult{
			Status: VerifyValid,
			Claims: &Claims{
				Subject:   claims.Subject,
				Email:     claims.Email,
				ExpiresAt: expiresAt,
			},
		}
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return VerifyResult{Status: VerifyExpired}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		// Signature, shape and claim failures fall back to asking the
		// provider directly: a rotated signing key looks identical to a
		// forged token from here.
		return v.introspect(ctx, tokenString)
	default:
		// Anything else is the verification machinery failing, not the token.
		v.logger.Warn("token verification errored", "error", err)
		return VerifyResult{Status: VerifyTransient}
	}
}

// introspect asks the provider who the token belongs to.
func (v *Verifier) introspect(ctx context.Context, tokenString string) VerifyResult {
	identity, err := v.provider.GetUser(ctx, tokenString)
	if err != nil {
		classified := Classify(err)
		switch classified.Kind {
		case KindTransient:
			return VerifyResult{Status: VerifyTransient}
		case KindExpired:
			return VerifyResult{Status: VerifyExpired}
		default:
			return VerifyResult{Status: VerifyInvalid}
		}
	}
	return VerifyResult{Status: VerifyValid, Identity: identity}
}
