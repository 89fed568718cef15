package core

import (
	"net/http"
)

// authenticate runs the request through the authenticator and applies any
// cookie directives the outcome demands. Returns nil after writing the error
// response when the request is not authenticated.
func (a *App) authenticate(w http.ResponseWriter, r *http.Request) *RequestAuth {
	ra, resp, err := a.Auth().Authenticate(r)
	if ra != nil {
		applySessionDirectives(w, a.Config().Session, ra.State)
	}
	if err != nil {
		writeJsonError(w, resp)
		return nil
	}
	return ra
}

// RequireAuth guards a handler chain behind an authenticated session.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ra := a.authenticate(w, r); ra == nil {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Recoverer converts handler panics into a 500 instead of killing the
// connection without a response.
func (a *App) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.Logger().Error("handler panic", "panic", rec, "path", r.URL.Path)
				writeJsonError(w, errorInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestLog logs one line per request after the handler returns.
func (a *App) RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		a.Logger().Debug("request", "method", r.Method, "path", r.URL.Path, "remote", getClientIP(r))
	})
}
