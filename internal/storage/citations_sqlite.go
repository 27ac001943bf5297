package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/belgraph/internal/reference"
)

const citationColumns = `id, db, db_id, name, title, volume, issue, pages, date, first_id, last_id`

// GetOrCreateCitation returns the citation for (db, dbID), creating an empty
// record if none exists. The identifier is trimmed before use.
func (d *DB) GetOrCreateCitation(db, dbID string) (*reference.Citation, error) {
	dbID = strings.TrimSpace(dbID)
	if dbID == "" {
		return nil, fmt.Errorf("citation identifier is empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.cache.citations[citationKey{db: db, dbID: dbID}]; ok {
		return c, nil
	}

	var c *reference.Citation
	err := d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO citations (db, db_id) VALUES (?, ?)`, db, dbID); err != nil {
			return fmt.Errorf("inserting citation %s:%s: %w", db, dbID, err)
		}
		var err error
		c, err = d.loadCitation(tx, db, dbID)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.cache.putCitation(c)
	return c, nil
}

// GetCitationByPMID returns the PubMed citation with the given identifier,
// or nil if it has not been stored.
func (d *DB) GetCitationByPMID(pmid string) (*reference.Citation, error) {
	pmid = strings.TrimSpace(pmid)

	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.cache.citations[citationKey{db: reference.DatabasePubMed, dbID: pmid}]; ok {
		return c, nil
	}

	c, err := d.loadCitation(d.db, reference.DatabasePubMed, pmid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	d.cache.putCitation(c)
	return c, nil
}

// CountCitations returns the number of stored citations.
func (d *DB) CountCitations() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM citations").Scan(&count)
	return count, err
}

// ListCitations returns every stored citation ordered by (db, db_id).
func (d *DB) ListCitations() ([]*reference.Citation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.db.Query(`SELECT db, db_id FROM citations ORDER BY db, db_id`)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	var keys []citationKey
	for rows.Next() {
		var k citationKey
		if err := rows.Scan(&k.db, &k.dbID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	citations := make([]*reference.Citation, 0, len(keys))
	for _, k := range keys {
		c, ok := d.cache.citations[k]
		if !ok {
			if c, err = d.loadCitation(d.db, k.db, k.dbID); err != nil {
				return nil, err
			}
			d.cache.putCitation(c)
		}
		citations = append(citations, c)
	}
	return citations, nil
}

// SaveCitation writes the metadata and ordered author list of c. Every author
// must come from GetOrCreateAuthor on this DB. If the write fails and c is the
// cached record, it is evicted so the next lookup reloads the stored row.
func (d *DB) SaveCitation(c *reference.Citation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.saveCitation(c)
	if err != nil {
		key := citationKey{db: c.DB, dbID: c.DBID}
		if d.cache.citations[key] == c {
			delete(d.cache.citations, key)
		}
	}
	return err
}

func (d *DB) saveCitation(c *reference.Citation) error {
	for _, a := range c.Authors {
		if a.ID == 0 {
			return fmt.Errorf("author %q has not been stored", a.Name)
		}
	}

	return d.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE citations
			SET name = ?, title = ?, volume = ?, issue = ?, pages = ?, date = ?, first_id = ?, last_id = ?
			WHERE id = ?`,
			nullableStringValue(c.Name),
			nullableStringValue(c.Title),
			nullableStringValue(c.Volume),
			nullableStringValue(c.Issue),
			nullableStringValue(c.Pages),
			nullableStringValue(c.Date),
			authorIDValue(c.First),
			authorIDValue(c.Last),
			c.ID,
		)
		if err != nil {
			return fmt.Errorf("updating citation %s:%s: %w", c.DB, c.DBID, err)
		}

		if _, err := tx.Exec(`DELETE FROM citation_authors WHERE citation_id = ?`, c.ID); err != nil {
			return fmt.Errorf("clearing authors of %s:%s: %w", c.DB, c.DBID, err)
		}
		for i, a := range c.Authors {
			_, err := tx.Exec(`INSERT OR IGNORE INTO citation_authors (citation_id, author_id, position) VALUES (?, ?, ?)`,
				c.ID, a.ID, i)
			if err != nil {
				return fmt.Errorf("linking author %q: %w", a.Name, err)
			}
		}
		return nil
	})
}

// loadCitation reads (db, dbID) and its authors. Returns sql.ErrNoRows if
// the record does not exist.
func (d *DB) loadCitation(q queryer, db, dbID string) (*reference.Citation, error) {
	row := q.QueryRow(`SELECT `+citationColumns+` FROM citations WHERE db = ? AND db_id = ?`, db, dbID)

	var c reference.Citation
	var name, title, volume, issue, pages, date sql.NullString
	var firstID, lastID sql.NullInt64
	err := row.Scan(&c.ID, &c.DB, &c.DBID, &name, &title, &volume, &issue, &pages, &date, &firstID, &lastID)
	if err != nil {
		return nil, err
	}
	c.Name = name.String
	c.Title = title.String
	c.Volume = volume.String
	c.Issue = issue.String
	c.Pages = pages.String
	c.Date = date.String

	ids, err := citationAuthorIDs(q, c.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		a, err := d.authorByID(q, id)
		if err != nil {
			return nil, err
		}
		c.Authors = append(c.Authors, a)
	}

	if firstID.Valid {
		if c.First, err = d.authorByID(q, firstID.Int64); err != nil {
			return nil, err
		}
	}
	if lastID.Valid {
		if c.Last, err = d.authorByID(q, lastID.Int64); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func citationAuthorIDs(q queryer, citationID int64) ([]int64, error) {
	rows, err := q.Query(`SELECT author_id FROM citation_authors WHERE citation_id = ? ORDER BY position`, citationID)
	if err != nil {
		return nil, fmt.Errorf("querying citation authors: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning citation author: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func authorIDValue(a *reference.Author) sql.NullInt64 {
	if a == nil || a.ID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: a.ID, Valid: true}
}
