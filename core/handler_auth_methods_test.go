package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/idp"
)

// linkedIdentity returns an identity with a password credential and one
// linked oauth provider.
func linkedIdentity(provider string) *idp.Identity {
	identity := testIdentity()
	identity.AppMetadata.Providers = append(identity.AppMetadata.Providers, provider)
	identity.Identities = append(identity.Identities, idp.LinkedIdentity{
		IdentityID: "ident-" + provider,
		Provider:   provider,
		ID:         provider + "-123",
		UserID:     "remote-1",
	})
	return identity
}

func decodeMethods(t *testing.T, body []byte) auth.MethodsStatus {
	t.Helper()
	var resp struct {
		Data auth.MethodsStatus `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding methods response: %v", err)
	}
	return resp.Data
}

func TestAuthMethodsHandler(t *testing.T) {
	app := newTestApp(nil, nil)

	rr := httptest.NewRecorder()
	app.AuthMethodsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/auth/methods", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	status := decodeMethods(t, rr.Body.Bytes())
	pw := status.Method(auth.MethodPassword)
	if pw == nil {
		t.Fatal("expected a password method entry")
	}
	if !pw.Configured || !pw.Enabled {
		t.Errorf("expected password configured and enabled, got %+v", pw)
	}
	otp := status.Method(auth.MethodEmailOTP)
	if otp == nil || !otp.Enabled {
		t.Fatal("expected email otp always enabled")
	}
	if otp.CanDisable {
		t.Error("email otp must never be disableable")
	}
	if status.EnabledMethodsCount != 2 {
		t.Errorf("expected 2 enabled methods in the payload, got %d", status.EnabledMethodsCount)
	}
	if status.MinimumEnabledMethods != auth.MinimumEnabledMethods {
		t.Errorf("expected the enabled floor in the payload, got %d", status.MinimumEnabledMethods)
	}
}

func TestAuthMethodsHandlerReusesAuthenticatedIdentity(t *testing.T) {
	called := false
	provider := &mockIdp{
		GetUserFunc: func(ctx context.Context, accessToken string) (*idp.Identity, error) {
			called = true
			return testIdentity(), nil
		},
	}
	app := newTestApp(provider, nil)

	rr := httptest.NewRecorder()
	app.AuthMethodsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/auth/methods", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if called {
		t.Error("identity from the authentication step should be reused, not refetched")
	}
}

func TestAuthMethodsHandlerUnauthenticated(t *testing.T) {
	app := newTestApp(nil, nil)
	authFailure(app, errorNoSession)

	rr := httptest.NewRecorder()
	app.AuthMethodsHandler(rr, httptest.NewRequest(http.MethodGet, "/api/auth/methods", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
