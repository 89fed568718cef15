package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// Mirror reconciles remote identities into local Profile records.
// Sync is idempotent: unchanged remote data produces no write.
type Mirror struct {
	store  db.DbProfile
	logger *slog.Logger
}

func NewMirror(store db.DbProfile, logger *slog.Logger) *Mirror {
	return &Mirror{store: store, logger: logger}
}

// Sync upserts the local mirror of a remote identity and returns the profile.
// fallbackEmail fills in when the provider omits the address (some OAuth
// providers withhold unverified emails).
//
// An email collision with a different remote identity is a conflict, not a
// merge: silently attaching a second provider to an existing address would
// let anyone claiming that email at another provider take the account over.
func (m *Mirror) Sync(ctx context.Context, identity *idp.Identity, fallbackEmail string) (*db.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("auth: sync requires a remote identity with an id")
	}

	email := identity.Email
	if email == "" {
		email = fallbackEmail
	}
	if email == "" {
		return nil, fmt.Errorf("auth: remote identity %s has no email", identity.ID)
	}

	existing, err := m.store.GetProfileByRemoteID(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: profile lookup failed: %w", err)
	}

	name := identity.DisplayName()
	if name == "" {
		if existing != nil {
			name = existing.Name
		} else {
			name = email
		}
	}

	profile := existing
	if needsWrite(existing, email, name, identity.UserMetadata.AvatarURL) {
		next := db.Profile{
			RemoteID: identity.ID,
			Email:    email,
			Name:     name,
			Avatar:   identity.UserMetadata.AvatarURL,
		}
		if existing != nil && identity.UserMetadata.AvatarURL == "" {
			// an avatar set locally survives providers that report none
			next.Avatar = existing.Avatar
		}

		profile, err = m.store.UpsertProfile(next)
		if err != nil {
			if errors.Is(err, db.ErrEmailConflict) {
				return nil, &Error{
					Kind:    KindConflict,
					Reason:  ReasonEmailConflict,
					Message: "An account with this email already exists. Sign in with your existing method, then link this provider from settings.",
					err:     err,
				}
			}
			return nil, fmt.Errorf("auth: profile upsert failed: %w", err)
		}
		m.logger.Info("profile synced", "remote_id", identity.ID, "profile_id", profile.ID)
	}

	// A half-initialized profile must never escape the mirror.
	if profile == nil || profile.ID == 0 || profile.Name == "" {
		return nil, fmt.Errorf("auth: profile synchronization for %s produced an incomplete record", identity.ID)
	}

	return profile, nil
}

func needsWrite(existing *db.Profile, email, name, avatar string) bool {
	if existing == nil {
		return true
	}
	if existing.Email != email {
		return true
	}
	if existing.Name != name && name != "" {
		return true
	}
	if avatar != "" && existing.Avatar != avatar {
		return true
	}
	return false
}
