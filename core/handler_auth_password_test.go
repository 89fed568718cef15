package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/db/mock"
	"github.com/latticehq/lattice/idp"
)

func TestChangePasswordHandlerRequiresCurrentPassword(t *testing.T) {
	app := newTestApp(&mockIdp{}, nil)

	body := `{"new_password":"longer-password"}`
	rr := httptest.NewRecorder()
	app.ChangePasswordHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/change", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "current_password") {
		t.Errorf("expected current_password field error in %q", rr.Body.String())
	}
}

func TestChangePasswordHandlerFirstTimeSetup(t *testing.T) {
	var gotParams idp.UpdateUserParams
	provider := &mockIdp{
		UpdateUserFunc: func(ctx context.Context, accessToken string, params idp.UpdateUserParams) (*idp.Identity, error) {
			gotParams = params
			return testIdentity(), nil
		},
	}
	var saved db.AuthSettings
	dbm := &mock.Db{
		GetAuthSettingsFunc: func(profileID int64) (db.AuthSettings, error) {
			// fresh oauth account: password seeded but never proven
			return db.AuthSettings{PasswordSignInEnabled: true, PasswordSetupRequired: true}, nil
		},
		SetAuthSettingsFunc: func(profileID int64, s db.AuthSettings) error {
			saved = s
			return nil
		},
	}
	app := newTestApp(provider, dbm)

	body := `{"new_password":"longer-password"}`
	rr := httptest.NewRecorder()
	app.ChangePasswordHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/change", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if gotParams.CurrentPassword != nil {
		t.Error("first-time setup must not send a current password")
	}
	if gotParams.Password == nil || *gotParams.Password != "longer-password" {
		t.Errorf("expected new password to reach the provider, got %+v", gotParams)
	}
	if !saved.PasswordSignInEnabled || saved.PasswordSetupRequired {
		t.Errorf("expected settings {enabled, setup done}, got %+v", saved)
	}
}

func TestChangePasswordHandlerProvenPassword(t *testing.T) {
	var gotParams idp.UpdateUserParams
	provider := &mockIdp{
		UpdateUserFunc: func(ctx context.Context, accessToken string, params idp.UpdateUserParams) (*idp.Identity, error) {
			gotParams = params
			return testIdentity(), nil
		},
	}
	app := newTestApp(provider, nil)

	body := `{"current_password":"old-password","new_password":"longer-password"}`
	rr := httptest.NewRecorder()
	app.ChangePasswordHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/change", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if gotParams.CurrentPassword == nil || *gotParams.CurrentPassword != "old-password" {
		t.Error("an established password must be proven on change")
	}
}

func TestChangePasswordHandlerShortPassword(t *testing.T) {
	app := newTestApp(&mockIdp{}, nil)

	body := `{"current_password":"old-password","new_password":"short"}`
	rr := httptest.NewRecorder()
	app.ChangePasswordHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/change", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "new_password") {
		t.Errorf("expected new_password field error in %q", rr.Body.String())
	}
}

func TestDisablePasswordLoginAlreadyDisabled(t *testing.T) {
	dbm := &mock.Db{
		GetAuthSettingsFunc: func(profileID int64) (db.AuthSettings, error) {
			return db.AuthSettings{PasswordSignInEnabled: false}, nil
		},
	}
	app := newTestApp(&mockIdp{}, dbm)

	rr := httptest.NewRecorder()
	app.DisablePasswordLoginHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/disable", `{}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), CodeErrorLastMethod) {
		t.Errorf("expected code %q in body %q", CodeErrorLastMethod, rr.Body.String())
	}
}

func TestDisablePasswordLoginOtpCarriesFloor(t *testing.T) {
	// email otp is always enabled, so dropping the password never strands
	// the account
	var saved db.AuthSettings
	dbm := &mock.Db{
		SetAuthSettingsFunc: func(profileID int64, s db.AuthSettings) error {
			saved = s
			return nil
		},
	}
	app := newTestApp(&mockIdp{}, dbm)

	rr := httptest.NewRecorder()
	app.DisablePasswordLoginHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/disable", `{}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if saved.PasswordSignInEnabled {
		t.Error("expected password sign-in persisted as disabled")
	}
}

func TestDisablePasswordLoginWithLinkedProvider(t *testing.T) {
	var saved db.AuthSettings
	dbm := &mock.Db{
		SetAuthSettingsFunc: func(profileID int64, s db.AuthSettings) error {
			saved = s
			return nil
		},
	}
	app := newTestApp(&mockIdp{}, dbm)
	ra := &RequestAuth{
		State: auth.AuthState{
			Authenticated: true,
			Profile:       testProfile(),
			Identity:      linkedIdentity("google"),
		},
		AccessToken: "access-token",
	}
	app.SetAuthenticator(&mockAuthenticator{RA: ra})

	rr := httptest.NewRecorder()
	app.DisablePasswordLoginHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/disable", `{}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if saved.PasswordSignInEnabled {
		t.Error("expected password sign-in persisted as disabled")
	}
	if !strings.Contains(rr.Body.String(), CodeOkPasswordLoginDisabled) {
		t.Errorf("expected code %q in %q", CodeOkPasswordLoginDisabled, rr.Body.String())
	}

	status := decodeMethods(t, rr.Body.Bytes())
	if pw := status.Method(auth.MethodPassword); pw == nil || pw.Enabled {
		t.Error("expected password reported as disabled in the refreshed inventory")
	}
}

func TestEnablePasswordLoginNotConfigured(t *testing.T) {
	// oauth-only account: no password credential exists to enable
	identity := testIdentity()
	identity.AppMetadata.Provider = "google"
	identity.AppMetadata.Providers = []string{"google"}
	identity.Identities = []idp.LinkedIdentity{
		{IdentityID: "ident-google", Provider: "google", ID: "google-123", UserID: "remote-1"},
	}

	app := newTestApp(&mockIdp{}, nil)
	app.SetAuthenticator(&mockAuthenticator{RA: &RequestAuth{
		State: auth.AuthState{
			Authenticated: true,
			Profile:       testProfile(),
			Identity:      identity,
		},
		AccessToken: "access-token",
	}})

	rr := httptest.NewRecorder()
	app.EnablePasswordLoginHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/enable", `{}`))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), CodeErrorMethodNotEnableable) {
		t.Errorf("expected code %q in body %q", CodeErrorMethodNotEnableable, rr.Body.String())
	}
}

func TestEnablePasswordLoginDisabledLocally(t *testing.T) {
	var saved db.AuthSettings
	dbm := &mock.Db{
		GetAuthSettingsFunc: func(profileID int64) (db.AuthSettings, error) {
			return db.AuthSettings{PasswordSignInEnabled: false}, nil
		},
		SetAuthSettingsFunc: func(profileID int64, s db.AuthSettings) error {
			saved = s
			return nil
		},
	}
	app := newTestApp(&mockIdp{}, dbm)

	rr := httptest.NewRecorder()
	app.EnablePasswordLoginHandler(rr, jsonRequest(http.MethodPost, "/api/auth/password/enable", `{}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if !saved.PasswordSignInEnabled {
		t.Error("expected password sign-in persisted as enabled")
	}
	if !strings.Contains(rr.Body.String(), CodeOkPasswordLoginEnabled) {
		t.Errorf("expected code %q in %q", CodeOkPasswordLoginEnabled, rr.Body.String())
	}
}
