package db

import "errors"

var (
	// ErrEmailConflict is returned by UpsertProfile when the email is already
	// owned by a profile with a different remote identity id.
	ErrEmailConflict = errors.New("email already registered by another identity")

	// ErrProfileNotFound is returned by settings accessors for unknown profiles.
	ErrProfileNotFound = errors.New("profile not found")
)

// DbProfile is the persistence surface the auth subsystem needs: the local
// mirror of remote identities plus the two sign-in policy flags.
type DbProfile interface {
	// GetProfileByRemoteID returns the profile mirroring the given remote
	// identity id, or (nil, nil) when no such profile exists.
	GetProfileByRemoteID(remoteID string) (*Profile, error)

	// UpsertProfile inserts the profile or updates the existing row with the
	// same remote identity id. Returns ErrEmailConflict when the email is
	// taken by a different remote identity.
	UpsertProfile(p Profile) (*Profile, error)

	GetAuthSettings(profileID int64) (AuthSettings, error)
	SetAuthSettings(profileID int64, s AuthSettings) error
}

type DbLifecycle interface {
	Close() error
}

// DbApp combines the DB roles the application requires. The concrete
// implementation (e.g. *zombiezen.Db) must satisfy this interface.
type DbApp interface {
	DbProfile
	DbLifecycle
}
