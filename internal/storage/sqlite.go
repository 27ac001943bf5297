// Package storage persists citations and authors in SQLite.
//
// Every get-or-create goes through an object cache owned by the DB value, so
// repeated calls with the same key return the same pointer for the lifetime
// of the DB. Operations are serialized by a mutex and each get-or-create runs
// in its own transaction, which keeps (db, db_id) and author names unique even
// when the DB is shared between goroutines.
package storage

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps a SQLite database connection and its session cache.
type DB struct {
	mu    sync.Mutex
	db    *sql.DB
	cache *objectCache
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes, and a single connection keeps
	// an in-memory database alive between calls.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, cache: newObjectCache()}, nil
}

// Close closes the database connection and drops the session cache.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = newObjectCache()
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Authors are unique by exact name; BINARY collation keeps
		-- accented and unaccented spellings apart.
		CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE BINARY
		);

		CREATE TABLE IF NOT EXISTS citations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			db TEXT NOT NULL,
			db_id TEXT NOT NULL,
			name TEXT,
			title TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			date TEXT,
			first_id INTEGER REFERENCES authors(id),
			last_id INTEGER REFERENCES authors(id),
			UNIQUE (db, db_id)
		);

		-- Ordered author lists
		CREATE TABLE IF NOT EXISTS citation_authors (
			citation_id INTEGER NOT NULL REFERENCES citations(id),
			author_id INTEGER NOT NULL REFERENCES authors(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (citation_id, author_id)
		);

		CREATE INDEX IF NOT EXISTS idx_citation_authors_citation ON citation_authors(citation_id, position);
	`

	_, err := db.Exec(schema)
	return err
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction, rolling back on error.
func (d *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
