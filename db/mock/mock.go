package mock

import (
	"github.com/latticehq/lattice/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	GetProfileByRemoteIDFunc func(remoteID string) (*db.Profile, error)
	UpsertProfileFunc        func(p db.Profile) (*db.Profile, error)
	GetAuthSettingsFunc      func(profileID int64) (db.AuthSettings, error)
	SetAuthSettingsFunc      func(profileID int64, s db.AuthSettings) error
}

func (m *Db) GetProfileByRemoteID(remoteID string) (*db.Profile, error) {
	if m.GetProfileByRemoteIDFunc != nil {
		return m.GetProfileByRemoteIDFunc(remoteID)
	}
	return nil, nil // Default: not found
}

func (m *Db) UpsertProfile(p db.Profile) (*db.Profile, error) {
	if m.UpsertProfileFunc != nil {
		return m.UpsertProfileFunc(p)
	}
	// Default: return the profile passed in with a mock row id.
	p.ID = 1
	if p.Name == "" {
		p.Name = "Mock User"
	}
	return &p, nil
}

func (m *Db) GetAuthSettings(profileID int64) (db.AuthSettings, error) {
	if m.GetAuthSettingsFunc != nil {
		return m.GetAuthSettingsFunc(profileID)
	}
	return db.AuthSettings{PasswordSignInEnabled: true}, nil
}

func (m *Db) SetAuthSettings(profileID int64, s db.AuthSettings) error {
	if m.SetAuthSettingsFunc != nil {
		return m.SetAuthSettingsFunc(profileID, s)
	}
	return nil
}

func (m *Db) Close() error { return nil }
