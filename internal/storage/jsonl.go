package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/belgraph/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// CitationRecord is the JSONL form of a stored citation. Authors are
// referenced by name so a dump can be loaded into a fresh database.
type CitationRecord struct {
	DB      string   `json:"db"`
	DBID    string   `json:"db_id"`
	Name    string   `json:"name,omitempty"`
	Title   string   `json:"title,omitempty"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`
	Date    string   `json:"date,omitempty"`
	First   string   `json:"first,omitempty"`
	Last    string   `json:"last,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// NewCitationRecord flattens c into its JSONL form.
func NewCitationRecord(c *reference.Citation) CitationRecord {
	r := CitationRecord{
		DB:     c.DB,
		DBID:   c.DBID,
		Name:   c.Name,
		Title:  c.Title,
		Volume: c.Volume,
		Issue:  c.Issue,
		Pages:  c.Pages,
		Date:   c.Date,
	}
	if c.First != nil {
		r.First = c.First.Name
	}
	if c.Last != nil {
		r.Last = c.Last.Name
	}
	if len(c.Authors) > 0 {
		r.Authors = c.AuthorNames()
	}
	return r
}

// ReadCitations reads all citation records from a JSONL file.
func ReadCitations(path string) ([]CitationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file reads as empty
		}
		return nil, fmt.Errorf("opening citations file: %w", err)
	}
	defer f.Close()

	var records []CitationRecord
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var r CitationRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading citations file: %w", err)
	}

	return records, nil
}

// WriteCitations writes all records to a JSONL file, replacing existing content.
func WriteCitations(path string, records []CitationRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating citations file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding citation %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing citation %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing citations file: %w", err)
	}
	return f.Close()
}

// ExportCitationsJSONL writes every stored citation to path and returns how
// many were written.
func (d *DB) ExportCitationsJSONL(path string) (int, error) {
	citations, err := d.ListCitations()
	if err != nil {
		return 0, err
	}

	records := make([]CitationRecord, len(citations))
	for i, c := range citations {
		records[i] = NewCitationRecord(c)
	}
	if err := WriteCitations(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportCitationsJSONL loads a dump written by ExportCitationsJSONL. Existing
// records with the same (db, db_id) are overwritten.
func (d *DB) ImportCitationsJSONL(path string) (int, error) {
	records, err := ReadCitations(path)
	if err != nil {
		return 0, err
	}

	for i, r := range records {
		c, err := d.GetOrCreateCitation(r.DB, r.DBID)
		if err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
		c.Name, c.Title = r.Name, r.Title
		c.Volume, c.Issue, c.Pages = r.Volume, r.Issue, r.Pages
		c.Date = r.Date

		c.Authors = c.Authors[:0]
		for _, name := range r.Authors {
			a, err := d.GetOrCreateAuthor(name)
			if err != nil {
				return i, fmt.Errorf("record %d: %w", i+1, err)
			}
			c.AddAuthor(a)
		}
		if c.First, err = d.optionalAuthor(r.First); err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
		if c.Last, err = d.optionalAuthor(r.Last); err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}

		if err := d.SaveCitation(c); err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return len(records), nil
}

func (d *DB) optionalAuthor(name string) (*reference.Author, error) {
	if name == "" {
		return nil, nil
	}
	return d.GetOrCreateAuthor(name)
}
