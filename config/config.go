package config

import (
	"fmt"
	"os"
	"sort"
	"time"
)

const (
	EnvIdpAnonKey = "LATTICE_IDP_ANON_KEY"
)

// Env is a reference to an environment variable. Name is set in the config
// file, Value is filled at load time.
type Env struct {
	Name  string `toml:"name"`
	Value string `toml:"-"`
}

func (e *Env) Fill() {
	e.Value = os.Getenv(e.Name)
}

// OAuth2 provider names accepted by the subsystem. The allowlist for flows
// is whatever subset appears in Config.OAuth2Providers.
const (
	OAuth2ProviderGoogle = "google"
	OAuth2ProviderGitHub = "github"
	OAuth2ProviderApple  = "apple"
)

// Duration wraps time.Duration for TOML (un)marshalling as a string like "45m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Idp describes the hosted identity provider the subsystem fronts.
// All credential state (passwords, OTP, linked OAuth identities) lives there;
// this service keeps only a profile mirror.
type Idp struct {
	// URL is the base URL, e.g. "https://id.example.com".
	URL string `toml:"url"`
	// AnonKey is the public API key sent with every request.
	AnonKey Env `toml:"anon_key"`
	// JwksPath is the well-known path of the signing key set.
	JwksPath       string   `toml:"jwks_path"`
	Issuer         string   `toml:"issuer"`
	Audience       string   `toml:"audience"`
	RequestTimeout Duration `toml:"request_timeout"`
	// KeySetTTL bounds how long a fetched key set is served from cache.
	// A rotated key ages out passively; remote introspection covers the window.
	KeySetTTL Duration `toml:"key_set_ttl"`
}

// Session controls the cookie pair carrying the provider token pair.
type Session struct {
	AccessCookieName  string `toml:"access_cookie_name"`
	RefreshCookieName string `toml:"refresh_cookie_name"`
	CookiePath        string `toml:"cookie_path"`
	// SecureCookies should be true everywhere except local development.
	SecureCookies bool `toml:"secure_cookies"`
	// PersistentMaxAge is the refresh cookie lifetime when the client asked
	// to be remembered on the device. Zero means session-scoped cookies.
	PersistentMaxAge Duration `toml:"persistent_max_age"`
}

type OAuth2Provider struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	// LinkingSupported marks providers the hosted IdP can attach to an
	// existing account. Absent capability on a link attempt is a
	// configuration error, not user input.
	LinkingSupported bool     `toml:"linking_supported"`
	Scopes           []string `toml:"scopes"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	BaseURL                 string   `toml:"base_url"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}

// Endpoints maps logical operations to "METHOD /path" strings so deployments
// can move the API surface without code changes.
type Endpoints struct {
	AuthRefresh           string `toml:"auth_refresh"`
	AuthMethods           string `toml:"auth_methods"`
	AuthWithPassword      string `toml:"auth_with_password"`
	RegisterWithPassword  string `toml:"register_with_password"`
	RequestOTP            string `toml:"request_otp"`
	AuthWithOTP           string `toml:"auth_with_otp"`
	ChangePassword        string `toml:"change_password"`
	EnablePasswordLogin   string `toml:"enable_password_login"`
	DisablePasswordLogin  string `toml:"disable_password_login"`
	RequestPasswordReset  string `toml:"request_password_reset"`
	Logout                string `toml:"logout"`
	OAuth2Start           string `toml:"oauth2_start"`
	OAuth2Link            string `toml:"oauth2_link"`
	OAuth2Callback        string `toml:"oauth2_callback"`
	OAuth2Unlink          string `toml:"oauth2_unlink"`
	ListOAuth2Providers   string `toml:"list_oauth2_providers"`
}

type Config struct {
	DBFile          string                    `toml:"db_file"`
	Server          Server                    `toml:"server"`
	Idp             Idp                       `toml:"idp"`
	Session         Session                   `toml:"session"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Endpoints       Endpoints                 `toml:"endpoints"`

	// Source records where the config was loaded from. Empty for defaults.
	Source string `toml:"-"`
}

// OrderedOAuth2Providers returns the configured providers sorted by name so
// every listing renders in a stable order.
func (c *Config) OrderedOAuth2Providers() []OAuth2Provider {
	names := make([]string, 0, len(c.OAuth2Providers))
	for name := range c.OAuth2Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]OAuth2Provider, 0, len(names))
	for _, name := range names {
		out = append(out, c.OAuth2Providers[name])
	}
	return out
}
