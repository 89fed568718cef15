package db

import "time"

// Profile is the local read-optimized mirror of a remote identity.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
//
// The remote provider owns the identity; this record is never deleted by the
// auth subsystem and is re-synced whenever remote email or name diverge.
type Profile struct {
	ID int64
	// RemoteID is the identity id assigned by the hosted provider. Unique.
	RemoteID string
	// Email is unique across profiles. Collisions surface as ErrEmailConflict.
	Email   string
	Name    string
	Avatar  string
	Created time.Time
	Updated time.Time
}

// AuthSettings are the local sign-in policy flags, keyed by profile id.
// They qualify the remote credential state: a password credential may exist
// on the provider while password sign-in is switched off locally.
type AuthSettings struct {
	PasswordSignInEnabled bool
	// PasswordSetupRequired marks accounts whose password was provisioned
	// (or reset) out of band. Such accounts may change the password without
	// presenting the current one.
	PasswordSetupRequired bool
}
