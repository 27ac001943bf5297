package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/matsen/belgraph/internal/reference"
)

// GetOrCreateAuthor returns the author with exactly this name, creating it
// if needed.
func (d *DB) GetOrCreateAuthor(name string) (*reference.Author, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a, ok := d.cache.authors[name]; ok {
		return a, nil
	}

	var a *reference.Author
	err := d.inTx(func(tx *sql.Tx) error {
		var err error
		a, err = getOrCreateAuthor(tx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.cache.putAuthor(a)
	return a, nil
}

func getOrCreateAuthor(q queryer, name string) (*reference.Author, error) {
	if _, err := q.Exec(`INSERT OR IGNORE INTO authors (name) VALUES (?)`, name); err != nil {
		return nil, fmt.Errorf("inserting author %q: %w", name, err)
	}
	a := &reference.Author{Name: name}
	if err := q.QueryRow(`SELECT id FROM authors WHERE name = ?`, name).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("reading author %q: %w", name, err)
	}
	return a, nil
}

// GetAuthorByName returns the author with exactly this name, or nil if
// there is none.
func (d *DB) GetAuthorByName(name string) (*reference.Author, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a, ok := d.cache.authors[name]; ok {
		return a, nil
	}

	a := &reference.Author{Name: name}
	err := d.db.QueryRow(`SELECT id FROM authors WHERE name = ?`, name).Scan(&a.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading author %q: %w", name, err)
	}
	d.cache.putAuthor(a)
	return a, nil
}

// AuthorCached reports whether an author with exactly this name is held in
// the session cache.
func (d *DB) AuthorCached(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.cache.authors[name]
	return ok
}

// CountAuthors returns the number of stored authors.
func (d *DB) CountAuthors() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM authors").Scan(&count)
	return count, err
}

// authorByID returns the author with the given id, consulting the cache first.
func (d *DB) authorByID(q queryer, id int64) (*reference.Author, error) {
	if a, ok := d.cache.authorsByID[id]; ok {
		return a, nil
	}
	a := &reference.Author{ID: id}
	if err := q.QueryRow(`SELECT name FROM authors WHERE id = ?`, id).Scan(&a.Name); err != nil {
		return nil, fmt.Errorf("reading author %d: %w", id, err)
	}
	d.cache.putAuthor(a)
	return a, nil
}
