package zombiezen

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/latticehq/lattice/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbProfile = (*Db)(nil)
var _ db.DbApp = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// Sharing one pool between this package and any direct database access is
// required to avoid SQLITE_BUSY errors.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

func (d *Db) Close() error {
	return d.pool.Close()
}

// Migrate applies all migration files from fsys on one pool connection.
func (d *Db) Migrate(ctx context.Context, fsys fs.FS) error {
	conn, err := d.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("taking connection for migrations: %w", err)
	}
	defer d.pool.Put(conn)
	return ApplyMigrations(conn, fsys)
}

// ApplyMigrations executes all .sql files from the given filesystem against
// the database connection. It walks the directory structure recursively.
func ApplyMigrations(conn *sqlite.Conn, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}

		sqlBytes, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("could not read embedded migration file %s: %w", path, err)
		}

		if err := sqlitex.ExecuteScript(conn, string(sqlBytes), nil); err != nil {
			return fmt.Errorf("failed to execute migration file %s: %w", path, err)
		}
		return nil
	})
}
