package storage

import "github.com/matsen/belgraph/internal/reference"

type citationKey struct {
	db, dbID string
}

// objectCache holds the records loaded or created through one DB so that
// repeated lookups return the same pointer. Author names are compared as
// exact strings.
type objectCache struct {
	citations   map[citationKey]*reference.Citation
	authors     map[string]*reference.Author
	authorsByID map[int64]*reference.Author
}

func newObjectCache() *objectCache {
	return &objectCache{
		citations:   make(map[citationKey]*reference.Citation),
		authors:     make(map[string]*reference.Author),
		authorsByID: make(map[int64]*reference.Author),
	}
}

func (c *objectCache) putAuthor(a *reference.Author) {
	c.authors[a.Name] = a
	c.authorsByID[a.ID] = a
}

func (c *objectCache) putCitation(ct *reference.Citation) {
	c.citations[citationKey{db: ct.DB, dbID: ct.DBID}] = ct
}
