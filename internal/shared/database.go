package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultBusyTimeoutMS is how long a connection waits on a locked database before failing.
const DefaultBusyTimeoutMS = 5000

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
//
// Connections take the write lock when a transaction begins (_txlock=immediate) and enforce foreign keys,
// so a read-then-write transaction never works from a stale snapshot.
func NewDatabase(path string) (*sql.DB, error) {
	return NewDatabaseWithTimeout(path, DefaultBusyTimeoutMS)
}

// NewDatabaseWithTimeout is [NewDatabase] with an explicit busy timeout in milliseconds.
func NewDatabaseWithTimeout(path string, busyTimeoutMS int) (*sql.DB, error) {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = DefaultBusyTimeoutMS
	}

	db, err := sql.Open("sqlite3", dsn(path, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every ":memory:" connection is its own database.
	if isMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// Recommended for production use to limit connections and improve performance.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

// OpenConfigured opens the database described by cfg and applies its pool settings.
func OpenConfigured(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := NewDatabaseWithTimeout(cfg.Path, cfg.BusyTimeoutMS)
	if err != nil {
		return nil, err
	}
	if !isMemory(cfg.Path) && cfg.MaxOpenConns > 0 {
		ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	return db, nil
}

func dsn(path string, busyTimeoutMS int) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_txlock=immediate&_foreign_keys=on&_busy_timeout=%d", path, sep, busyTimeoutMS)
}

func isMemory(path string) bool {
	return strings.HasPrefix(path, ":memory:") || strings.Contains(path, "mode=memory")
}
