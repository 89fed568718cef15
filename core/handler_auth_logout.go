package core

import (
	"net/http"
)

// LogoutHandler drops the session cookies. Intentionally unauthenticated:
// signing out with a broken session must still work.
// Endpoint: POST /api/auth/logout
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.Config()
	clearSessionCookies(w, cfg.Session)
	clearOauth2FlowCookie(w, cfg.Session)
	writeJsonOk(w, okLogout)
}
