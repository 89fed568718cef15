package zombiezen

import (
	"context"
	"fmt"

	"github.com/latticehq/lattice/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// newProfileFromStmt creates a Profile struct from a SQLite statement
func newProfileFromStmt(stmt *sqlite.Stmt) (*db.Profile, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.Profile{
		ID:       stmt.GetInt64("id"),
		RemoteID: stmt.GetText("remote_id"),
		Email:    stmt.GetText("email"),
		Name:     stmt.GetText("name"),
		Avatar:   stmt.GetText("avatar"),
		Created:  created,
		Updated:  updated,
	}, nil
}

// GetProfileByRemoteID retrieves the profile mirroring a remote identity id.
// Returns:
// - *db.Profile: record if found, nil if no matching record exists
// - error: only returned for database errors, nil on successful query
// Note: a nil profile with nil error indicates no matching record was found
func (d *Db) GetProfileByRemoteID(remoteID string) (*db.Profile, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var profile *db.Profile
	err = sqlitex.Execute(conn,
		`SELECT id, remote_id, email, name, avatar, created, updated
		FROM profiles WHERE remote_id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				profile, err = newProfileFromStmt(stmt)
				return err
			},
			Args: []any{remoteID},
		})

	if err != nil {
		return nil, err
	}

	return profile, nil
}

// UpsertProfile inserts a profile or refreshes the row with the same
// remote_id. The remote_id conflict is absorbed by the upsert clause, so any
// unique violation that still surfaces is the email index: the address is
// owned by a row with a different remote_id.
func (d *Db) UpsertProfile(p db.Profile) (*db.Profile, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var saved db.Profile
	err = sqlitex.Execute(conn,
		`INSERT INTO profiles (remote_id, email, name, avatar)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(remote_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			avatar = excluded.avatar,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		RETURNING id, remote_id, email, name, avatar, created, updated`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempProfile, err := newProfileFromStmt(stmt)
				if err == nil && tempProfile != nil {
					saved = *tempProfile
				}
				return err
			},
			Args: []any{p.RemoteID, p.Email, p.Name, p.Avatar},
		})

	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return nil, db.ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	// Settings row is created with the profile so the flags always resolve.
	err = sqlitex.Execute(conn,
		`INSERT OR IGNORE INTO auth_settings (profile_id) VALUES (?)`,
		&sqlitex.ExecOptions{Args: []any{saved.ID}})
	if err != nil {
		return nil, fmt.Errorf("failed to init auth settings: %w", err)
	}

	return &saved, nil
}

func (d *Db) GetAuthSettings(profileID int64) (db.AuthSettings, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return db.AuthSettings{}, err
	}
	defer d.pool.Put(conn)

	var settings db.AuthSettings
	found := false
	err = sqlitex.Execute(conn,
		`SELECT password_sign_in_enabled, password_setup_required
		FROM auth_settings WHERE profile_id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				settings.PasswordSignInEnabled = stmt.GetInt64("password_sign_in_enabled") != 0
				settings.PasswordSetupRequired = stmt.GetInt64("password_setup_required") != 0
				found = true
				return nil
			},
			Args: []any{profileID},
		})
	if err != nil {
		return db.AuthSettings{}, err
	}
	if !found {
		return db.AuthSettings{}, db.ErrProfileNotFound
	}

	return settings, nil
}

func (d *Db) SetAuthSettings(profileID int64, s db.AuthSettings) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO auth_settings (profile_id, password_sign_in_enabled, password_setup_required)
		VALUES (?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET
			password_sign_in_enabled = excluded.password_sign_in_enabled,
			password_setup_required = excluded.password_setup_required`,
		&sqlitex.ExecOptions{
			Args: []any{profileID, s.PasswordSignInEnabled, s.PasswordSetupRequired},
		})
	if err != nil {
		return fmt.Errorf("failed to update auth settings: %w", err)
	}
	return nil
}
