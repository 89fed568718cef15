package core

import (
	"encoding/json"
	"net/http"

	"github.com/latticehq/lattice/auth"
)

// AuthWithPasswordHandler handles password-based authentication (login)
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) AuthWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	session, err := a.Idp().PasswordSignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	profile, err := a.Mirror().Sync(r.Context(), session.User, req.Email)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	// The local kill switch wins over a credential the provider accepted.
	settings, err := a.Db().GetAuthSettings(profile.ID)
	if err != nil {
		a.Logger().Error("loading auth settings failed", "error", err, "profile_id", profile.ID)
		writeJsonError(w, errorInternal)
		return
	}
	if !settings.PasswordSignInEnabled {
		writeJsonError(w, errorPasswordLoginDisabled)
		return
	}

	writeSessionCookies(w, a.Config().Session, session)
	writeAuthResponse(w, session, profile)
}

// RegisterWithPasswordHandler creates a new account with a password
// credential.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) RegisterWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		Name            string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	fields := make(map[string]string)
	if req.Email == "" {
		fields["email"] = "cannot be blank"
	} else if err := ValidateEmail(req.Email); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if err := ValidatePassword(req.Password); err != nil {
		fields["password"] = err.Error()
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		fields["password_confirm"] = "does not match the password"
	}
	if len(fields) > 0 {
		writeClassifiedError(w, &auth.ValidationError{Fields: fields})
		return
	}

	session, err := a.Idp().SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	profile, err := a.Mirror().Sync(r.Context(), session.User, req.Email)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	writeSessionCookies(w, a.Config().Session, session)
	writeAuthResponse(w, session, profile)
}
