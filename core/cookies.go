package core

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/idp"
)

// oauth2FlowCookie carries the pending flow state across the provider
// redirect. Short-lived and HttpOnly; the frontend never reads it.
const oauth2FlowCookie = "lattice_oauth2_flow"

const oauth2FlowMaxAge = 10 * time.Minute

// readSessionCookies returns the access and refresh tokens from the request
// cookies. Either may be empty.
func readSessionCookies(r *http.Request, cfg config.Session) (accessToken, refreshToken string) {
	if c, err := r.Cookie(cfg.AccessCookieName); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(cfg.RefreshCookieName); err == nil {
		refreshToken = c.Value
	}
	return accessToken, refreshToken
}

func newSessionCookie(cfg config.Session, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cfg.CookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// writeSessionCookies issues the cookie pair for a session. The access
// cookie lives as long as the token, the refresh cookie for the persistent
// window.
func writeSessionCookies(w http.ResponseWriter, cfg config.Session, session *idp.Session) {
	accessMaxAge := session.ExpiresIn
	if accessMaxAge <= 0 {
		accessMaxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(w, newSessionCookie(cfg, cfg.AccessCookieName, session.AccessToken, accessMaxAge))
	http.SetCookie(w, newSessionCookie(cfg, cfg.RefreshCookieName, session.RefreshToken, int(cfg.PersistentMaxAge.Seconds())))
}

// clearSessionCookies expires both session cookies.
func clearSessionCookies(w http.ResponseWriter, cfg config.Session) {
	http.SetCookie(w, newSessionCookie(cfg, cfg.AccessCookieName, "", -1))
	http.SetCookie(w, newSessionCookie(cfg, cfg.RefreshCookieName, "", -1))
}

// applySessionDirectives turns the cookie directives of an AuthState into
// Set-Cookie headers. Transient states touch nothing.
func applySessionDirectives(w http.ResponseWriter, cfg config.Session, state auth.AuthState) {
	switch {
	case state.NewSession != nil:
		writeSessionCookies(w, cfg, state.NewSession)
	case state.ClearSession:
		clearSessionCookies(w, cfg)
	}
}

func writeOauth2FlowCookie(w http.ResponseWriter, cfg config.Session, flow auth.FlowState) error {
	payload, err := json.Marshal(flow)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauth2FlowCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     cfg.CookiePath,
		MaxAge:   int(oauth2FlowMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func readOauth2FlowCookie(r *http.Request) (auth.FlowState, bool) {
	c, err := r.Cookie(oauth2FlowCookie)
	if err != nil {
		return auth.FlowState{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return auth.FlowState{}, false
	}
	var flow auth.FlowState
	if err := json.Unmarshal(payload, &flow); err != nil {
		return auth.FlowState{}, false
	}
	return flow, true
}

func clearOauth2FlowCookie(w http.ResponseWriter, cfg config.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauth2FlowCookie,
		Value:    "",
		Path:     cfg.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
