package lattice

import (
	"net/http"

	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/core"
)

func route(cfg *config.Config, ap *core.App) {
	handle := func(endpoint string, h http.HandlerFunc) {
		chain := core.NewChain(h).WithMiddleware(ap.Recoverer, ap.RequestLog)
		ap.Router().Handle(endpoint, chain.Handler())
	}

	// session
	handle(cfg.Endpoints.AuthRefresh, ap.RefreshAuthHandler)
	handle(cfg.Endpoints.Logout, ap.LogoutHandler)

	// sign-in and registration
	handle(cfg.Endpoints.AuthWithPassword, ap.AuthWithPasswordHandler)
	handle(cfg.Endpoints.RegisterWithPassword, ap.RegisterWithPasswordHandler)
	handle(cfg.Endpoints.RequestOTP, ap.RequestOTPHandler)
	handle(cfg.Endpoints.AuthWithOTP, ap.AuthWithOTPHandler)
	handle(cfg.Endpoints.RequestPasswordReset, ap.RequestPasswordResetHandler)

	// account method management
	handle(cfg.Endpoints.AuthMethods, ap.AuthMethodsHandler)
	handle(cfg.Endpoints.ChangePassword, ap.ChangePasswordHandler)
	handle(cfg.Endpoints.EnablePasswordLogin, ap.EnablePasswordLoginHandler)
	handle(cfg.Endpoints.DisablePasswordLogin, ap.DisablePasswordLoginHandler)

	// oauth2
	handle(cfg.Endpoints.OAuth2Start, ap.StartOAuth2Handler)
	handle(cfg.Endpoints.OAuth2Link, ap.LinkOAuth2Handler)
	handle(cfg.Endpoints.OAuth2Callback, ap.CallbackOAuth2Handler)
	handle(cfg.Endpoints.OAuth2Unlink, ap.UnlinkOAuth2Handler)
	handle(cfg.Endpoints.ListOAuth2Providers, ap.ListOAuth2ProvidersHandler)
}
