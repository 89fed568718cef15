package idp

import "time"

// ProviderEmail is the pseudo-provider the hosted IdP reports for accounts
// with a password credential.
const ProviderEmail = "email"

// LinkedIdentity is one provider identity attached to a remote account.
type LinkedIdentity struct {
	// IdentityID is the id of the link object itself, required for unlink.
	IdentityID string `json:"identity_id"`
	Provider   string `json:"provider"`
	// ID is the account id at the upstream provider.
	ID string `json:"id"`
	// UserID is the remote account this identity belongs to.
	UserID string `json:"user_id"`
}

// AppMetadata is provider-managed account metadata. Which of Provider and
// Providers is populated varies by provider; callers must merge both with the
// identities list before reasoning about linked methods.
type AppMetadata struct {
	Provider  string   `json:"provider"`
	Providers []string `json:"providers"`
}

// UserMetadata is the free-form profile blob the account carries.
type UserMetadata struct {
	FullName  string `json:"full_name"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Identity is the remote account as the hosted IdP reports it. Read-only;
// the local Profile mirrors the subset this service needs.
type Identity struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	AppMetadata  AppMetadata      `json:"app_metadata"`
	UserMetadata UserMetadata     `json:"user_metadata"`
	Identities   []LinkedIdentity `json:"identities"`
}

// DisplayName picks the best available human-readable name.
func (i *Identity) DisplayName() string {
	if i.UserMetadata.FullName != "" {
		return i.UserMetadata.FullName
	}
	if i.UserMetadata.Name != "" {
		return i.UserMetadata.Name
	}
	return i.Email
}

// Session is a provider token pair. Ephemeral: it only travels between the
// provider and cookie storage, never persisted here.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"-"`
	User         *Identity `json:"user,omitempty"`
}
