// Package pubmed provides a client for the NCBI E-utilities esummary service.
package pubmed

// Summary is one document summary returned by esummary for db=pubmed.
type Summary struct {
	UID             string   `json:"uid"`
	Title           string   `json:"title,omitempty"`
	Source          string   `json:"source,omitempty"`          // Abbreviated journal
	FullJournalName string   `json:"fulljournalname,omitempty"` // Journal
	PubDate         string   `json:"pubdate,omitempty"`         // Free-form, e.g. "1998 May"
	Volume          string   `json:"volume,omitempty"`
	Issue           string   `json:"issue,omitempty"`
	Pages           string   `json:"pages,omitempty"`
	Authors         []Author `json:"authors,omitempty"`
	SortFirstAuthor string   `json:"sortfirstauthor,omitempty"`
	LastAuthor      string   `json:"lastauthor,omitempty"`

	// Error is set by PubMed for identifiers it cannot resolve.
	Error string `json:"error,omitempty"`
}

// Author is an author entry in a document summary.
type Author struct {
	Name     string `json:"name"`
	AuthType string `json:"authtype,omitempty"`
}

// Failed reports whether PubMed flagged this record as an error.
func (s Summary) Failed() bool {
	return s.Error != ""
}

// AuthorNames returns the author names in order, skipping blanks.
func (s Summary) AuthorNames() []string {
	names := make([]string, 0, len(s.Authors))
	for _, a := range s.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}
