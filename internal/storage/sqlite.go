// Package storage persists label styles and query history in SQLite and JSONL.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per (kind, label); -1 marks an unbound slot or size
		CREATE TABLE IF NOT EXISTS label_styles (
			kind TEXT NOT NULL CHECK (kind IN ('node', 'edge')),
			label TEXT NOT NULL,
			slot INTEGER NOT NULL DEFAULT -1,
			size_index INTEGER NOT NULL DEFAULT -1,
			caption TEXT,
			PRIMARY KEY (kind, label)
		);

		CREATE TABLE IF NOT EXISTS query_history (
			id TEXT PRIMARY KEY,
			graph TEXT NOT NULL,
			query TEXT,
			statement TEXT NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			executed_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON query_history(executed_at);
	`
	_, err := db.Exec(schema)
	return err
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
