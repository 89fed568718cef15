package core

import (
	"encoding/json"
	"net/http"

	"github.com/latticehq/lattice/auth"
)

// RequestPasswordResetHandler asks the provider to mail reset instructions.
// Always accepted so the endpoint cannot be used to probe for accounts.
// Endpoint: POST /api/auth/password-reset
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := a.Idp().RequestPasswordReset(r.Context(), req.Email); err != nil {
		if cerr := auth.Classify(err); cerr.Kind == auth.KindTransient {
			writeJsonError(w, errorServiceUnavailable)
			return
		}
		a.Logger().Info("password reset rejected upstream", "error", err)
	}

	writeJsonOk(w, okPasswordResetRequested)
}
