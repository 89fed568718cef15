package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/crypto"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// FlowIntent distinguishes why an OAuth round-trip was started. A link
// callback must attach to the signed-in account, never create a session for
// somebody else, so the intent travels with the flow state.
type FlowIntent string

const (
	IntentSignIn FlowIntent = "signin"
	IntentLink   FlowIntent = "link"
)

// FlowState is the per-flow secret material. The caller persists it across
// the redirect (cookie or server side) and hands it back on completion.
type FlowState struct {
	Provider     string     `json:"provider"`
	Intent       FlowIntent `json:"intent"`
	State        string     `json:"state"`
	CodeVerifier string     `json:"code_verifier"`
	Created      time.Time  `json:"created"`
}

// StartedFlow is the outcome of Start or LinkStart.
type StartedFlow struct {
	AuthURL string
	Flow    FlowState
}

// OAuthCoordinator drives the OAuth sign-in, link and unlink flows.
type OAuthCoordinator struct {
	provider Provider
	cfg      *config.Provider
	logger   *slog.Logger
}

func NewOAuthCoordinator(provider Provider, cfg *config.Provider, logger *slog.Logger) *OAuthCoordinator {
	return &OAuthCoordinator{provider: provider, cfg: cfg, logger: logger}
}

func (c *OAuthCoordinator) providerConfig(name string) (config.OAuth2Provider, error) {
	if p, ok := c.cfg.Get().OAuth2Providers[name]; ok {
		return p, nil
	}
	return config.OAuth2Provider{}, newValidationError("provider", fmt.Sprintf("unknown provider %q", name))
}

// Start begins a sign-in flow against the named provider.
func (c *OAuthCoordinator) Start(ctx context.Context, providerName, redirectTo string) (StartedFlow, error) {
	pc, err := c.providerConfig(providerName)
	if err != nil {
		return StartedFlow{}, err
	}

	state := crypto.Oauth2State()
	verifier := crypto.Oauth2CodeVerifier()

	authURL, err := c.provider.SignInURL(ctx, providerName, redirectTo, state, verifier, pc.Scopes)
	if err != nil {
		return StartedFlow{}, Classify(err)
	}

	return StartedFlow{
		AuthURL: authURL,
		Flow: FlowState{
			Provider:     providerName,
			Intent:       IntentSignIn,
			State:        state,
			CodeVerifier: verifier,
			Created:      time.Now().UTC(),
		},
	}, nil
}

// LinkStart begins attaching the named provider to the signed-in account.
// Providers without linking support are rejected before any remote call.
func (c *OAuthCoordinator) LinkStart(ctx context.Context, accessToken, providerName, redirectTo string, status MethodsStatus) (StartedFlow, error) {
	pc, err := c.providerConfig(providerName)
	if err != nil {
		return StartedFlow{}, err
	}
	if !pc.LinkingSupported {
		return StartedFlow{}, &Error{
			Kind:    KindConflict,
			Reason:  ReasonManualLinkingDisabled,
			Message: msgLinkingDisabled,
		}
	}
	if m := status.Method(OAuthMethodID(providerName)); m != nil && m.Enabled {
		return StartedFlow{}, &Error{
			Kind:    KindConflict,
			Reason:  ReasonAlreadyLinked,
			Message: msgAlreadyLinked,
		}
	}

	state := crypto.Oauth2State()

	authURL, err := c.provider.LinkIdentityURL(ctx, accessToken, providerName, redirectTo, state)
	if err != nil {
		return StartedFlow{}, Classify(err)
	}

	return StartedFlow{
		AuthURL: authURL,
		Flow: FlowState{
			Provider: providerName,
			Intent:   IntentLink,
			State:    state,
			Created:  time.Now().UTC(),
		},
	}, nil
}

// Complete finishes a flow from the callback parameters.
//
// Provider-signalled errors short-circuit before any remote call, as does a
// callback that carries neither a code nor a token pair. A state mismatch is
// a hard rejection; accepting it would let an attacker splice their own
// authorization into someone else's browser session.
func (c *OAuthCoordinator) Complete(ctx context.Context, flow FlowState, data CallbackData) (*idp.Session, error) {
	if data.HasError() {
		return nil, callbackError(data)
	}
	if data.State == "" || data.State != flow.State {
		return nil, &Error{Kind: KindInvalid, Message: "OAuth callback state did not match."}
	}
	if data.Code == "" && !data.HasTokens() {
		return nil, newValidationError("code", "cannot be blank")
	}

	if data.Code != "" {
		session, err := c.provider.ExchangeCode(ctx, data.Code, flow.CodeVerifier)
		if err != nil {
			return nil, Classify(err)
		}
		return session, nil
	}

	// Implicit-style callback: the tokens arrive directly and only need an
	// identity attached.
	identity, err := c.provider.GetUser(ctx, data.AccessToken)
	if err != nil {
		return nil, Classify(err)
	}
	return &idp.Session{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		TokenType:    "bearer",
		User:         identity,
	}, nil
}

// callbackError maps the provider's error parameters to the classified
// taxonomy. A user pressing "cancel" on the consent screen is not a fault.
func callbackError(data CallbackData) error {
	desc := data.ErrorDescription
	if desc == "" {
		desc = data.Error
	}
	if data.Error == "access_denied" || data.ErrorCode == "access_denied" {
		return &Error{Kind: KindInvalid, Message: "OAuth sign-in was cancelled."}
	}
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf("OAuth sign-in failed: %s", desc)}
}

// Unlink detaches the provider's identity from the account and returns the
// refreshed method inventory.
func (c *OAuthCoordinator) Unlink(ctx context.Context, accessToken, providerName string, status MethodsStatus, settings db.AuthSettings) (MethodsStatus, error) {
	// A provider that is not linked is bad input from the caller, not a
	// missing remote identity.
	method := status.Method(OAuthMethodID(providerName))
	if method == nil || !method.Enabled {
		return MethodsStatus{}, newValidationError("provider", "is not linked to this account")
	}
	if !method.CanDisable {
		return MethodsStatus{}, &Error{
			Kind:    KindConflict,
			Reason:  ReasonLastIdentity,
			Message: msgLastIdentity,
		}
	}
	if method.IdentityID == "" {
		return MethodsStatus{}, &Error{
			Kind:    KindNotFound,
			Reason:  ReasonIdentityNotFound,
			Message: msgIdentityMissing,
		}
	}

	if err := c.provider.UnlinkIdentity(ctx, accessToken, method.IdentityID); err != nil {
		return MethodsStatus{}, Classify(err)
	}

	// The remote view changed; recompute from fresh state rather than
	// hand-editing the old inventory.
	identity, err := c.provider.GetUser(ctx, accessToken)
	if err != nil {
		return MethodsStatus{}, Classify(err)
	}
	return ComputeAuthMethods(identity, settings, c.cfg.Get().OrderedOAuth2Providers()), nil
}

// BuildCallbackRedirect appends the outcome of a flow to the frontend
// callback URL. Errors travel as query parameters the frontend renders.
func BuildCallbackRedirect(base string, err error) (string, error) {
	u, parseErr := url.Parse(base)
	if parseErr != nil {
		return "", fmt.Errorf("auth: bad callback base url: %w", parseErr)
	}
	q := u.Query()
	if err != nil {
		cerr := Classify(err)
		q.Set("error", cerr.Kind.String())
		q.Set("error_description", cerr.Message)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
