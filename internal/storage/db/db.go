// Package db caches computed mod manifests in SQLite so conflict scans do
// not re-read large archives on every pass.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection and runs migrations
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL for better write behavior during apply runs
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	database := &DB{DB: sqlDB}

	if err := database.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return database, nil
}

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS manifest_cache (
			mod_key TEXT NOT NULL,
			source_mtime INTEGER NOT NULL,
			relative_path TEXT NOT NULL,
			PRIMARY KEY (mod_key, relative_path)
		)
	`); err != nil {
		return fmt.Errorf("creating manifest_cache table: %w", err)
	}
	return nil
}
