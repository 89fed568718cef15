package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/crypto"
	"golang.org/x/oauth2"
)

// Client talks to the hosted identity provider's HTTP API. All credential
// state lives on the provider; this client never stores tokens.
type Client struct {
	baseURL    string
	jwksPath   string
	anonKey    string
	timeout    time.Duration
	http       *http.Client
	// noRedirect is used for authorize endpoints where the interesting part
	// of the response is the Location header.
	noRedirect *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.Idp, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  cfg.URL,
		jwksPath: cfg.JwksPath,
		anonKey:  cfg.AnonKey.Value,
		timeout:  cfg.RequestTimeout.Duration,
		http:     &http.Client{Timeout: cfg.RequestTimeout.Duration},
		noRedirect: &http.Client{
			Timeout: cfg.RequestTimeout.Duration,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// do performs a JSON request. token is the bearer credential; empty means the
// public API key alone. out may be nil for requests with no useful body.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("idp: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("idp: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("idp: request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("idp: failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// GetUser resolves an access token to the identity it belongs to. Also serves
// as remote token introspection: an invalid token yields a 401 APIError.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// ListIdentities returns the provider identities linked to the account.
func (c *Client) ListIdentities(ctx context.Context, accessToken string) ([]LinkedIdentity, error) {
	identity, err := c.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return identity.Identities, nil
}

func (c *Client) finishSession(s *Session) *Session {
	if s.ExpiresIn > 0 && s.ExpiresAt.IsZero() {
		s.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return s
}

// RefreshSession exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session); err != nil {
		return nil, err
	}
	return c.finishSession(&session), nil
}

func (c *Client) PasswordSignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return c.finishSession(&session), nil
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": name},
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &session); err != nil {
		return nil, err
	}
	return c.finishSession(&session), nil
}

// RequestOTP asks the provider to email a one-time code. The provider
// responds identically for known and unknown addresses.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	body := map[string]any{"email": email, "create_user": false}
	return c.do(ctx, http.MethodPost, "/otp", "", body, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	body := map[string]string{"type": "email", "email": email, "token": code}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/verify", "", body, &session); err != nil {
		return nil, err
	}
	return c.finishSession(&session), nil
}

// ExchangeCode trades an authorization code for a session at the provider's
// standard OAuth2 token endpoint. The resulting identity is fetched in the
// same call so callers never hold a session without knowing who it is for.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conf := oauth2.Config{
		ClientID: c.anonKey,
		Endpoint: oauth2.Endpoint{TokenURL: c.baseURL + "/token"},
	}

	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := conf.Exchange(ctx, code, opts...)
	if err != nil {
		if retrieveErr, ok := err.(*oauth2.RetrieveError); ok {
			return nil, &APIError{
				Status:  retrieveErr.Response.StatusCode,
				Code:    retrieveErr.ErrorCode,
				Message: retrieveErr.ErrorDescription,
			}
		}
		return nil, fmt.Errorf("idp: code exchange failed: %w", err)
	}

	identity, err := c.GetUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
		User:         identity,
	}, nil
}

// authorizeLocation performs a no-redirect GET and returns the Location the
// provider answers with. Non-3xx responses are provider errors.
func (c *Client) authorizeLocation(ctx context.Context, requestURL, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("idp: failed to build authorize request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("idp: authorize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return "", newAPIError(resp)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", &APIError{Status: resp.StatusCode, Message: "authorize response missing Location"}
	}
	return location, nil
}

// SignInURL asks the provider for the upstream sign-in URL for a provider.
// state and codeVerifier bind the eventual callback to this request.
func (c *Client) SignInURL(ctx context.Context, provider, redirectTo, state, codeVerifier string, scopes []string) (string, error) {
	conf := oauth2.Config{
		ClientID:    c.anonKey,
		RedirectURL: redirectTo,
		Scopes:      scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: c.baseURL + "/authorize"},
	}
	authorizeURL := conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("provider", provider),
		oauth2.SetAuthURLParam("code_challenge", crypto.S256Challenge(codeVerifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return c.authorizeLocation(ctx, authorizeURL, "")
}

// LinkIdentityURL is the link-intent variant of SignInURL. It requires the
// session of the account the new identity will be attached to.
func (c *Client) LinkIdentityURL(ctx context.Context, accessToken, provider, redirectTo, state string) (string, error) {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_to", redirectTo)
	q.Set("state", state)
	linkURL := c.baseURL + "/user/identities/authorize?" + q.Encode()
	return c.authorizeLocation(ctx, linkURL, accessToken)
}

// UnlinkIdentity detaches a linked provider identity from the account.
func (c *Client) UnlinkIdentity(ctx context.Context, accessToken, identityID string) error {
	return c.do(ctx, http.MethodDelete, "/user/identities/"+url.PathEscape(identityID), accessToken, nil, nil)
}

// UpdateUserParams carries the mutable account fields. Nil fields are left
// untouched by the provider.
type UpdateUserParams struct {
	Password        *string           `json:"password,omitempty"`
	CurrentPassword *string           `json:"current_password,omitempty"`
	Email           *string           `json:"email,omitempty"`
	Data            map[string]string `json:"data,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, accessToken string, params UpdateUserParams) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, params, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// RequestPasswordReset asks the provider to send a reset email. Like
// RequestOTP, the provider does not reveal whether the address exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/recover", "", body, nil)
}

// KeySet fetches the provider's current signing key set.
func (c *Client) KeySet(ctx context.Context) (*jose.JSONWebKeySet, error) {
	var keySet jose.JSONWebKeySet
	if err := c.do(ctx, http.MethodGet, c.jwksPath, "", nil, &keySet); err != nil {
		return nil, err
	}
	if len(keySet.Keys) == 0 {
		return nil, fmt.Errorf("idp: key set at %s is empty", c.jwksPath)
	}
	return &keySet, nil
}
