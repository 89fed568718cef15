package core

import (
	"encoding/json"
	"net/http"

	"github.com/latticehq/lattice/auth"
)

// RequestOTPHandler asks the provider to mail a one-time sign-in code.
// The response never reveals whether the account exists; only a provider
// outage surfaces as an error.
// Endpoint: POST /api/auth/otp/request
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) RequestOTPHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || ValidateEmail(req.Email) != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	if err := a.Idp().RequestOTP(r.Context(), req.Email); err != nil {
		if cerr := auth.Classify(err); cerr.Kind == auth.KindTransient {
			writeJsonError(w, errorServiceUnavailable)
			return
		}
		// swallow everything else: accepted is accepted
		a.Logger().Info("otp request rejected upstream", "error", err)
	}

	writeJsonOk(w, okOtpRequested)
}

// AuthWithOTPHandler trades an emailed code for a session.
// Endpoint: POST /api/auth/otp/verify
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) AuthWithOTPHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Code == "" {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	session, err := a.Idp().VerifyOTP(r.Context(), req.Email, req.Code)
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
