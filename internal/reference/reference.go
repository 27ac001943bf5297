// Package reference defines the stored bibliographic records shared by the
// citation store and the enrichment pipeline.
package reference

import "slices"

// Citation database names.
const (
	DatabasePubMed = "pubmed"
)

// Citation is one stored bibliographic record, unique per (DB, DBID).
type Citation struct {
	// Identity
	ID   int64  `json:"id"`
	DB   string `json:"db"`    // Citation database (e.g. "pubmed")
	DBID string `json:"db_id"` // Identifier within DB (e.g. a PMID)

	// Metadata
	Name   string `json:"name,omitempty"` // Journal
	Title  string `json:"title,omitempty"`
	Volume string `json:"volume,omitempty"`
	Issue  string `json:"issue,omitempty"`
	Pages  string `json:"pages,omitempty"`
	Date   string `json:"date,omitempty"` // YYYY-MM-DD, empty if unknown

	// Authors
	First   *Author   `json:"first,omitempty"`
	Last    *Author   `json:"last,omitempty"`
	Authors []*Author `json:"authors,omitempty"`
}

// IsResolved reports whether the record already holds a date, a journal
// and an author list, so no lookup is needed.
func (c *Citation) IsResolved() bool {
	return c.Date != "" && c.Name != "" && len(c.Authors) > 0
}

// HasAuthor reports whether a is already in the author list.
func (c *Citation) HasAuthor(a *Author) bool {
	return slices.ContainsFunc(c.Authors, func(x *Author) bool {
		return x == a || x.Name == a.Name
	})
}

// AddAuthor appends a unless it is already listed.
func (c *Citation) AddAuthor(a *Author) {
	if !c.HasAuthor(a) {
		c.Authors = append(c.Authors, a)
	}
}

// AuthorNames returns the author names in order.
func (c *Citation) AuthorNames() []string {
	names := make([]string, len(c.Authors))
	for i, a := range c.Authors {
		names[i] = a.Name
	}
	return names
}
