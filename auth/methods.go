package auth

import (
	"strings"

	"github.com/latticehq/lattice/config"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

const (
	MethodPassword = "password"
	MethodEmailOTP = "email_otp"

	oauthMethodPrefix = "oauth:"

	// The floor below which no disable or unlink may take the account.
	MinimumEnabledMethods = 1
)

// Method kinds, the class a method belongs to regardless of its id.
const (
	MethodKindPassword = "password"
	MethodKindOTP      = "otp"
	MethodKindOAuth    = "oauth"
)

// OAuthMethodID returns the method id for a provider ("oauth:google").
func OAuthMethodID(provider string) string {
	return oauthMethodPrefix + provider
}

// ProviderFromMethodID returns the provider of an oauth method id, or "".
func ProviderFromMethodID(id string) string {
	return strings.TrimPrefix(id, oauthMethodPrefix)
}

func IsOAuthMethodID(id string) bool {
	return strings.HasPrefix(id, oauthMethodPrefix)
}

// AuthMethod describes one sign-in method as the settings screen renders it.
type AuthMethod struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Configured  bool   `json:"configured"`
	Enabled     bool   `json:"enabled"`
	CanEnable   bool   `json:"can_enable"`
	CanDisable  bool   `json:"can_disable"`

	// SupportsSecretUpdate marks methods whose secret the user can change
	// through the password-change flow.
	SupportsSecretUpdate bool `json:"supports_secret_update"`

	// Provider is set for oauth methods only.
	Provider string `json:"provider,omitempty"`

	// Only meaningful for the password method.
	RequiresCurrentPassword bool `json:"requires_current_password,omitempty"`

	// Remote identity id backing an oauth method, needed to unlink it.
	IdentityID string `json:"identity_id,omitempty"`
}

// MethodsStatus is the full method inventory for one account, with the
// counters the settings screen needs to explain why a disable is refused.
type MethodsStatus struct {
	Methods               []AuthMethod `json:"methods"`
	EnabledMethodsCount   int          `json:"enabled_methods_count"`
	MinimumEnabledMethods int          `json:"minimum_enabled_methods"`
}

// Method returns the entry with the given id, or nil.
func (s MethodsStatus) Method(id string) *AuthMethod {
	for i := range s.Methods {
		if s.Methods[i].ID == id {
			return &s.Methods[i]
		}
	}
	return nil
}

func (s MethodsStatus) enabledCount() int {
	n := 0
	for _, m := range s.Methods {
		if m.Enabled {
			n++
		}
	}
	return n
}

// CollectProviderIDs merges the three places the remote records providers:
// the primary provider field, the providers list, and the identities
// themselves. The three routinely disagree after linking and unlinking, so
// the union is the only trustworthy view. Order of first appearance wins.
func CollectProviderIDs(identity *idp.Identity) []string {
	if identity == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	add(identity.AppMetadata.Provider)
	for _, p := range identity.AppMetadata.Providers {
		add(p)
	}
	for _, ident := range identity.Identities {
		add(ident.Provider)
	}
	return out
}

// ComputeAuthMethods derives the method inventory from the remote identity,
// the local auth settings and the configured oauth providers.
//
// Rules, in brief: the password method is configured when the remote account
// carries an email identity and enabled when the user has not switched it
// off locally. The email OTP method is always available and can never be
// disabled, which guarantees the enabled floor. An oauth method is enabled
// exactly when its identity is linked; enabling one means linking, so
// CanEnable stays false and the link flow is the only way in. Disabling the
// password requires another enabled method; unlinking an oauth identity
// requires another configured identity-bearing method, where OTP does not
// count because it proves only mailbox access.
func ComputeAuthMethods(identity *idp.Identity, settings db.AuthSettings, providers []config.OAuth2Provider) MethodsStatus {
	providerIDs := CollectProviderIDs(identity)
	linked := make(map[string]bool, len(providerIDs))
	for _, p := range providerIDs {
		linked[p] = true
	}

	identityIDs := make(map[string]string)
	if identity != nil {
		for _, ident := range identity.Identities {
			if identityIDs[ident.Provider] == "" {
				identityIDs[ident.Provider] = ident.IdentityID
			}
		}
	}

	passwordConfigured := linked[idp.ProviderEmail]
	passwordEnabled := passwordConfigured && settings.PasswordSignInEnabled

	var methods []AuthMethod

	methods = append(methods, AuthMethod{
		ID:                   MethodPassword,
		Kind:                 MethodKindPassword,
		DisplayName:          "Password",
		Configured:           passwordConfigured,
		Enabled:              passwordEnabled,
		CanEnable:            passwordConfigured && !passwordEnabled,
		SupportsSecretUpdate: true,
		// A freshly enabled password has no previous one to prove.
		RequiresCurrentPassword: passwordEnabled && !settings.PasswordSetupRequired,
	})

	methods = append(methods, AuthMethod{
		ID:          MethodEmailOTP,
		Kind:        MethodKindOTP,
		DisplayName: "Email code",
		Configured:  true,
		Enabled:     true,
	})

	appendOAuth := func(name, display string) {
		isLinked := linked[name]
		methods = append(methods, AuthMethod{
			ID:          OAuthMethodID(name),
			Kind:        MethodKindOAuth,
			DisplayName: display,
			Configured:  isLinked,
			Enabled:     isLinked,
			Provider:    name,
			IdentityID:  identityIDs[name],
		})
	}

	inConfig := make(map[string]bool, len(providers))
	for _, p := range providers {
		inConfig[p.Name] = true
		display := p.DisplayName
		if display == "" {
			display = p.Name
		}
		appendOAuth(p.Name, display)
	}
	// Identities linked under providers no longer configured still show up,
	// otherwise they could never be unlinked.
	for _, p := range providerIDs {
		if p == idp.ProviderEmail || inConfig[p] {
			continue
		}
		appendOAuth(p, p)
	}

	status := MethodsStatus{Methods: methods}

	// identity-bearing methods: password plus oauth, never OTP
	identityBearing := 0
	if passwordConfigured {
		identityBearing++
	}
	for _, m := range status.Methods {
		if IsOAuthMethodID(m.ID) && m.Configured {
			identityBearing++
		}
	}

	enabled := status.enabledCount()
	for i := range status.Methods {
		m := &status.Methods[i]
		switch {
		case m.ID == MethodEmailOTP:
			m.CanDisable = false
		case m.ID == MethodPassword:
			m.CanDisable = m.Enabled && enabled > MinimumEnabledMethods
		case IsOAuthMethodID(m.ID):
			m.CanDisable = m.Enabled && identityBearing > 1
		}
	}

	status.EnabledMethodsCount = enabled
	status.MinimumEnabledMethods = MinimumEnabledMethods

	return status
}
