package core

import (
	"encoding/json"
	"net/http"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// ChangePasswordHandler sets a new password on the account. A previously
// established password must be proven; a first-time setup (fresh OAuth
// account, admin-seeded password) must not, since there is nothing to prove.
// Endpoint: POST /api/auth/password/change
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}
	ra := a.authenticate(w, r)
	if ra == nil {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	fields := make(map[string]string)
	if err := ValidatePassword(req.NewPassword); err != nil {
		fields["new_password"] = err.Error()
	}

	_, _, status, ok := a.methodsStatus(w, r, ra)
	if !ok {
		return
	}
	pw := status.Method(auth.MethodPassword)
	if pw.RequiresCurrentPassword && req.CurrentPassword == "" {
		fields["current_password"] = "cannot be blank"
	}
	if len(fields) > 0 {
		writeClassifiedError(w, &auth.ValidationError{Fields: fields})
		return
	}

	params := idp.UpdateUserParams{Password: &req.NewPassword}
	if pw.RequiresCurrentPassword {
		params.CurrentPassword = &req.CurrentPassword
	}
	if _, err := a.Idp().UpdateUser(r.Context(), ra.AccessToken, params); err != nil {
		writeClassifiedError(w, err)
		return
	}

	// The account now has a proven, current password.
	err := a.Db().SetAuthSettings(ra.State.Profile.ID, db.AuthSettings{
		PasswordSignInEnabled: true,
		PasswordSetupRequired: false,
	})
	if err != nil {
		a.Logger().Error("persisting auth settings failed", "error", err, "profile_id", ra.State.Profile.ID)
		writeJsonError(w, errorInternal)
		return
	}

	writeJsonOk(w, okPasswordChanged)
}

// EnablePasswordLoginHandler re-enables password sign-in that was switched
// off locally.
// Endpoint: POST /api/auth/password/enable
// Authenticated: Yes
func (a *App) EnablePasswordLoginHandler(w http.ResponseWriter, r *http.Request) {
	a.setPasswordLogin(w, r, true)
}

// DisablePasswordLoginHandler switches password sign-in off for the
// account. Refused when it would leave no other enabled method.
// Endpoint: POST /api/auth/password/disable
// Authenticated: Yes
func (a *App) DisablePasswordLoginHandler(w http.ResponseWriter, r *http.Request) {
	a.setPasswordLogin(w, r, false)
}

func (a *App) setPasswordLogin(w http.ResponseWriter, r *http.Request, enable bool) {
	ra := a.authenticate(w, r)
	if ra == nil {
		return
	}

	identity, settings, status, ok := a.methodsStatus(w, r, ra)
	if !ok {
		return
	}

	pw := status.Method(auth.MethodPassword)
	if enable && !pw.CanEnable {
		writeJsonError(w, errorMethodNotEnableable)
		return
	}
	if !enable && !pw.CanDisable {
		writeJsonError(w, errorLastMethod)
		return
	}

	settings.PasswordSignInEnabled = enable
	if err := a.Db().SetAuthSettings(ra.State.Profile.ID, settings); err != nil {
		a.Logger().Error("persisting auth settings failed", "error", err, "profile_id", ra.State.Profile.ID)
		writeJsonError(w, errorInternal)
		return
	}

	refreshed := auth.ComputeAuthMethods(identity, settings, a.Config().OrderedOAuth2Providers())
	if enable {
		writeAuthMethodsResponse(w, CodeOkPasswordLoginEnabled, "Password sign-in enabled", refreshed)
	} else {
		writeAuthMethodsResponse(w, CodeOkPasswordLoginDisabled, "Password sign-in disabled", refreshed)
	}
}
