package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/latticehq/lattice/auth"
)

// OAuth2ProviderInfo describes one provider in the discovery listing.
type OAuth2ProviderInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"display_name"`
	LinkingSupported bool   `json:"linking_supported"`
}

// OAuth2ProviderListData wraps the provider list payload
type OAuth2ProviderListData struct {
	Providers []OAuth2ProviderInfo `json:"providers"`
}

// OAuth2StartData is the payload of a started flow. The frontend navigates
// to AuthURL; the flow secrets stay server-side in the flow cookie.
type OAuth2StartData struct {
	Provider string `json:"provider"`
	AuthURL  string `json:"auth_url"`
}

// ListOAuth2ProvidersHandler returns the configured OAuth2 providers.
// Endpoint: GET /api/oauth2/providers
// Authenticated: No
func (a *App) ListOAuth2ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	var providers []OAuth2ProviderInfo
	for _, p := range a.Config().OrderedOAuth2Providers() {
		display := p.DisplayName
		if display == "" {
			display = p.Name
		}
		providers = append(providers, OAuth2ProviderInfo{
			Name:             p.Name,
			DisplayName:      display,
			LinkingSupported: p.LinkingSupported,
		})
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOAuth2ProvidersList,
			Message: "OAuth2 providers list",
		},
		Data: OAuth2ProviderListData{Providers: providers},
	})
}

// callbackRedirectTo returns the frontend URL the provider sends the user
// back to after consent.
func (a *App) callbackRedirectTo(requested string) string {
	if requested != "" {
		return requested
	}
	return a.Config().Server.BaseURL + "/auth/callback"
}

func (a *App) writeStartedFlow(w http.ResponseWriter, started auth.StartedFlow) {
	if err := writeOauth2FlowCookie(w, a.Config().Session, started.Flow); err != nil {
		a.Logger().Error("persisting oauth2 flow failed", "error", err)
		writeJsonError(w, errorInternal)
		return
	}
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOAuth2Start,
			Message: "OAuth2 flow started",
		},
		Data: OAuth2StartData{Provider: started.Flow.Provider, AuthURL: started.AuthURL},
	})
}

// StartOAuth2Handler begins a provider sign-in flow.
// Endpoint: POST /api/oauth2/start
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) StartOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Provider   string `json:"provider"`
		RedirectTo string `json:"redirect_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Provider == "" {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	started, err := a.OAuth().Start(r.Context(), req.Provider, a.callbackRedirectTo(req.RedirectTo))
	if err != nil {
		var validationErr *auth.ValidationError
		if errors.As(err, &validationErr) {
			writeJsonError(w, errorInvalidOAuth2Provider)
			return
		}
		writeClassifiedError(w, err)
		return
	}

	a.writeStartedFlow(w, started)
}

// LinkOAuth2Handler begins attaching a provider to the signed-in account.
// Endpoint: POST /api/oauth2/link
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) LinkOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}
	ra := a.authenticate(w, r)
	if ra == nil {
		return
	}

	var req struct {
		Provider   string `json:"provider"`
		RedirectTo string `json:"redirect_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Provider == "" {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	_, _, status, ok := a.methodsStatus(w, r, ra)
	if !ok {
		return
	}

	started, err := a.OAuth().LinkStart(r.Context(), ra.AccessToken, req.Provider, a.callbackRedirectTo(req.RedirectTo), status)
	if err != nil {
		var validationErr *auth.ValidationError
		if errors.As(err, &validationErr) {
			writeJsonError(w, errorInvalidOAuth2Provider)
			return
		}
		writeClassifiedError(w, err)
		return
	}

	a.writeStartedFlow(w, started)
}

// CallbackOAuth2Handler completes a pending flow. The frontend posts back
// whatever the provider appended to the redirect, as a raw URL or as the
// individual parameters; fragments only exist client-side, so the server
// cannot read them from the redirect itself.
// Endpoint: POST /api/oauth2/callback
// Authenticated: No (the flow cookie authenticates the flow)
// Allowed Mimetype: application/json
func (a *App) CallbackOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	flow, ok := readOauth2FlowCookie(r)
	if !ok {
		writeJsonError(w, errorOAuth2FlowMissing)
		return
	}

	var req struct {
		URL              string `json:"url"`
		Code             string `json:"code"`
		State            string `json:"state"`
		AccessToken      string `json:"access_token"`
		RefreshToken     string `json:"refresh_token"`
		Error            string `json:"error"`
		ErrorCode        string `json:"error_code"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	var data auth.CallbackData
	if req.URL != "" {
		u, err := url.Parse(req.URL)
		if err != nil {
			writeJsonError(w, errorInvalidRequest)
			return
		}
		data = auth.ParseCallback(u)
	} else {
		data = auth.CallbackData{
			Code:             req.Code,
			State:            req.State,
			AccessToken:      req.AccessToken,
			RefreshToken:     req.RefreshToken,
			Error:            req.Error,
			ErrorCode:        req.ErrorCode,
			ErrorDescription: req.ErrorDescription,
		}
	}

	cfg := a.Config()
	clearOauth2FlowCookie(w, cfg.Session)

	session, err := a.OAuth().Complete(r.Context(), flow, data)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	profile, err := a.Mirror().Sync(r.Context(), session.User, "")
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	writeSessionCookies(w, cfg.Session, session)

	if flow.Intent == auth.IntentLink {
		settings, err := a.Db().GetAuthSettings(profile.ID)
		if err != nil {
			a.Logger().Error("loading auth settings failed", "error", err, "profile_id", profile.ID)
			writeJsonError(w, errorInternal)
			return
		}
		status := auth.ComputeAuthMethods(session.User, settings, cfg.OrderedOAuth2Providers())
		writeAuthMethodsResponse(w, CodeOkAuthMethods, "Sign-in methods", status)
		return
	}

	writeAuthResponse(w, session, profile)
}

// UnlinkOAuth2Handler detaches a provider identity from the account.
// Endpoint: POST /api/oauth2/unlink
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) UnlinkOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}
	ra := a.authenticate(w, r)
	if ra == nil {
		return
	}

	var req struct {
		Provider string `json:"provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Provider == "" {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	_, settings, status, ok := a.methodsStatus(w, r, ra)
	if !ok {
		return
	}

	refreshed, err := a.OAuth().Unlink(r.Context(), ra.AccessToken, req.Provider, status, settings)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	writeAuthMethodsResponse(w, CodeOkIdentityUnlinked, "Identity unlinked", refreshed)
}
