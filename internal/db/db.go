// Package db is the storage layer: a single SQLite database file holding
// the hero roster, with a schema managed by embedded migrations.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by point lookups when no row matches.
// Callers discriminate with errors.Is.
var ErrNotFound = errors.New("not found")

// DB wraps the process-wide database handle. One instance is created at
// startup and shared read-only by all operations; individual writes run
// in their own transactions.
type DB struct {
	*sql.DB
	path string
}

// OpenDB opens the database file and applies connection pragmas without
// touching the schema. Used by the migrate CLI, which manages the schema
// itself.
func OpenDB(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?%s", path, url.Values{
		"_pragma": []string{
			"journal_mode(WAL)",
			"foreign_keys(1)",
			"busy_timeout(5000)",
		},
	}.Encode())

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return &DB{DB: sqlDB, path: path}, nil
}

// NewDB opens the database file and migrates the schema to the latest
// version. This is the normal entry point for the server and tools.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := db.MigrateUp(migrationsFS); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Path returns the filesystem path of the database file.
func (db *DB) Path() string {
	return db.path
}
