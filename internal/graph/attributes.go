package graph

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Attributes is the attribute bag of a node or an edge.
type Attributes map[string]any

// Clone returns a deep copy of the bag. Citations, annotations and nested
// bags are copied; other values are copied by assignment.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Citation:
		return x.Clone()
	case Annotations:
		return x.Clone()
	case Attributes:
		return x.Clone()
	case map[string]any:
		return map[string]any(Attributes(x).Clone())
	case []string:
		return slices.Clone(x)
	default:
		return v
	}
}

// SubdictMatches reports whether every key of query is present in target
// with an equal value. Extra keys in target are ignored. String-kinded
// values compare by content, so "increases" matches Increases.
func SubdictMatches(target, query Attributes) bool {
	for k, want := range query {
		got, ok := target[k]
		if !ok {
			return false
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.String && rb.Kind() == reflect.String {
		return ra.String() == rb.String()
	}
	return reflect.DeepEqual(a, b)
}

// Annotations maps an annotation keyword to the set of values it takes on
// an edge (for example "CellLine" -> {"HeLa"}).
type Annotations map[string]map[string]bool

// NewAnnotations builds an annotation set from keyword/value lists.
func NewAnnotations(kv map[string][]string) Annotations {
	a := make(Annotations, len(kv))
	for k, values := range kv {
		a.Add(k, values...)
	}
	return a
}

// Add records values under keyword k.
func (a Annotations) Add(k string, values ...string) {
	set, ok := a[k]
	if !ok {
		set = make(map[string]bool, len(values))
		a[k] = set
	}
	for _, v := range values {
		set[v] = true
	}
}

// Has reports whether keyword k has value v.
func (a Annotations) Has(k, v string) bool {
	return a[k][v]
}

// Values returns the sorted values of keyword k.
func (a Annotations) Values(k string) []string {
	return slices.Sorted(maps.Keys(a[k]))
}

// Clone returns a deep copy.
func (a Annotations) Clone() Annotations {
	if a == nil {
		return nil
	}
	out := make(Annotations, len(a))
	for k, set := range a {
		out[k] = maps.Clone(set)
	}
	return out
}

// Citation is the bibliographic reference carried by a qualified edge.
// Type and Reference identify it; the remaining fields are filled by
// enrichment.
type Citation struct {
	Type        string   `json:"type"`
	Reference   string   `json:"reference"`
	Name        string   `json:"name,omitempty"` // journal
	Title       string   `json:"title,omitempty"`
	Date        string   `json:"date,omitempty"` // YYYY-MM-DD
	Volume      string   `json:"volume,omitempty"`
	Issue       string   `json:"issue,omitempty"`
	Pages       string   `json:"pages,omitempty"`
	FirstAuthor string   `json:"first,omitempty"`
	LastAuthor  string   `json:"last,omitempty"`
	Authors     []string `json:"authors,omitempty"`
}

// PubMedCitation returns a citation referencing the given PubMed identifier.
func PubMedCitation(pmid string) *Citation {
	return &Citation{Type: CitationTypePubMed, Reference: pmid}
}

// IsPubMed reports whether c references a PubMed identifier.
func (c *Citation) IsPubMed() bool {
	return c != nil && c.Type == CitationTypePubMed && strings.TrimSpace(c.Reference) != ""
}

// IsComplete reports whether the journal, date and author list are all set.
func (c *Citation) IsComplete() bool {
	return c != nil && c.Name != "" && c.Date != "" && len(c.Authors) > 0
}

// Clone returns a deep copy.
func (c *Citation) Clone() *Citation {
	if c == nil {
		return nil
	}
	out := *c
	out.Authors = slices.Clone(c.Authors)
	return &out
}
