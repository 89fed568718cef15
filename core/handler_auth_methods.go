package core

import (
	"net/http"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// methodsStatus assembles the method inventory for an authenticated request,
// writing the error response itself when that fails. The remote identity
// from the authentication step is reused when present; otherwise one extra
// provider call fetches it.
func (a *App) methodsStatus(w http.ResponseWriter, r *http.Request, ra *RequestAuth) (*idp.Identity, db.AuthSettings, auth.MethodsStatus, bool) {
	identity := ra.State.Identity
	if identity == nil {
		var err error
		identity, err = a.Idp().GetUser(r.Context(), ra.AccessToken)
		if err != nil {
			writeClassifiedError(w, err)
			return nil, db.AuthSettings{}, auth.MethodsStatus{}, false
		}
	}

	settings, err := a.Db().GetAuthSettings(ra.State.Profile.ID)
	if err != nil {
		a.Logger().Error("loading auth settings failed", "error", err, "profile_id", ra.State.Profile.ID)
		writeJsonError(w, errorInternal)
		return nil, db.AuthSettings{}, auth.MethodsStatus{}, false
	}

	status := auth.ComputeAuthMethods(identity, settings, a.Config().OrderedOAuth2Providers())
	return identity, settings, status, true
}

// AuthMethodsHandler lists the sign-in methods of the account, with the
// enable/disable transitions the policy allows.
// Endpoint: GET /api/auth/methods
// Authenticated: Yes
func (a *App) AuthMethodsHandler(w http.ResponseWriter, r *http.Request) {
	ra := a.authenticate(w, r)
	if ra == nil {
		return
	}

	_, _, status, ok := a.methodsStatus(w, r, ra)
	if !ok {
		return
	}

	writeAuthMethodsResponse(w, CodeOkAuthMethods, "Sign-in methods", status)
}
