package lattice

// Helper functions to create SQLite connection pools with defaults that fit
// this application (WAL mode, URI DSNs). If your application interacts with
// the database alongside lattice, use a single shared pool to prevent
// SQLITE_BUSY errors: create it here and pass it both ways.

import (
	"fmt"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"
)

// NewZombiezenPool creates a new SQLite connection pool with reasonable
// defaults (WAL mode enabled via the default open flags).
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()
	initString := fmt.Sprintf("file:%s", dbPath)

	// sqlitex.NewPool with default options uses flags:
	// sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL | sqlite.OpenURI
	pool, err := sqlitex.NewPool(initString, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default zombiezen pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

var explicitBusyTimeout = 5 * time.Second

// NewZombiezenPerformancePool creates a pool tuned via explicit PRAGMA
// settings in the DSN string. busy_timeout in the DSN is in milliseconds.
func NewZombiezenPerformancePool(dbPath string) (*sqlitex.Pool, error) {
	poolSize := runtime.NumCPU()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d&_foreign_keys=on",
		dbPath,
		explicitBusyTimeout.Milliseconds(),
	)

	pool, err := sqlitex.NewPool(dsn, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create performance zombiezen pool at %s using DSN '%s': %w", dbPath, dsn, err)
	}
	return pool, nil
}
