package config

import "time"

// NewDefaultConfig creates a Config with sensible defaults. The IdP URL and
// API keys have no sane default and must come from a config file/environment.
func NewDefaultConfig() *Config {
	return &Config{
		DBFile: "lattice.db",
		Server: Server{
			Addr:                    ":8080",
			BaseURL:                 "http://localhost:8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 5 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Idp: Idp{
			AnonKey:        Env{Name: EnvIdpAnonKey},
			JwksPath:       "/.well-known/jwks.json",
			RequestTimeout: Duration{Duration: 10 * time.Second},
			KeySetTTL:      Duration{Duration: 10 * time.Minute},
		},
		Session: Session{
			AccessCookieName:  "lattice_access_token",
			RefreshCookieName: "lattice_refresh_token",
			CookiePath:        "/",
			SecureCookies:     true,
			PersistentMaxAge:  Duration{Duration: 30 * 24 * time.Hour},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGoogle: {
				Name:             OAuth2ProviderGoogle,
				DisplayName:      "Google",
				LinkingSupported: true,
				Scopes:           []string{"email", "profile"},
			},
			OAuth2ProviderGitHub: {
				Name:             OAuth2ProviderGitHub,
				DisplayName:      "GitHub",
				LinkingSupported: true,
				Scopes:           []string{"user:email"},
			},
		},
		Endpoints: Endpoints{
			AuthRefresh:          "POST /api/auth/refresh",
			AuthMethods:          "GET /api/auth/methods",
			AuthWithPassword:     "POST /api/auth/login",
			RegisterWithPassword: "POST /api/auth/register",
			RequestOTP:           "POST /api/auth/otp/request",
			AuthWithOTP:          "POST /api/auth/otp/verify",
			ChangePassword:       "POST /api/auth/password/change",
			EnablePasswordLogin:  "POST /api/auth/password/enable",
			DisablePasswordLogin: "POST /api/auth/password/disable",
			RequestPasswordReset: "POST /api/auth/password-reset",
			Logout:               "POST /api/auth/logout",
			OAuth2Start:          "POST /api/oauth2/start",
			OAuth2Link:           "POST /api/oauth2/link",
			OAuth2Callback:       "POST /api/oauth2/callback",
			OAuth2Unlink:         "POST /api/oauth2/unlink",
			ListOAuth2Providers:  "GET /api/oauth2/providers",
		},
	}
}
