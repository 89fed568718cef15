package core

import (
	"net/http"
)

// RefreshAuthHandler resolves the session cookie pair, refreshing the
// tokens when the access token has run out.
// Endpoint: POST /api/auth/refresh
// Authenticated: Yes (by the cookies themselves)
// Allowed Mimetype: application/json
func (a *App) RefreshAuthHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config()
	accessToken, refreshToken := requestTokens(r, cfg.Session)
	if accessToken == "" && refreshToken == "" {
		writeJsonError(w, errorNoSession)
		return
	}

	state, err := a.Sessions().AuthenticateRequest(r.Context(), accessToken, refreshToken)
	if err != nil {
		a.Logger().Error("session refresh failed", "error", err)
		writeJsonError(w, errorInternal)
		return
	}

	applySessionDirectives(w, cfg.Session, state)

	switch {
	case state.Transient:
		writeJsonError(w, errorServiceUnavailable)
	case !state.Authenticated:
		writeJsonError(w, errorNoSession)
	default:
		writeAuthResponse(w, state.NewSession, state.Profile)
	}
}
