// Package citation normalizes publication dates and fills PubMed citations
// from a persistent store, falling back to a batch lookup for records the
// store cannot yet answer.
package citation

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/belgraph/internal/graph"
	"github.com/matsen/belgraph/internal/logger"
	"github.com/matsen/belgraph/internal/pubmed"
	"github.com/matsen/belgraph/internal/reference"
)

// Defaults for an Enricher.
const (
	DefaultGroupSize   = 200
	DefaultParallelism = 1
)

// ErrLookupFailed wraps the error of every batch whose lookup failed.
var ErrLookupFailed = errors.New("citation lookup failed")

// Store is the persistent citation and author store.
type Store interface {
	GetOrCreateCitation(db, dbID string) (*reference.Citation, error)
	GetCitationByPMID(pmid string) (*reference.Citation, error)
	CountCitations() (int, error)
	GetOrCreateAuthor(name string) (*reference.Author, error)
	GetAuthorByName(name string) (*reference.Author, error)
	SaveCitation(c *reference.Citation) error
}

// Lookup fetches bibliographic summaries for one batch of PubMed identifiers.
type Lookup interface {
	Summaries(ctx context.Context, ids []string) (map[string]pubmed.Summary, error)
}

// Result reports the outcome of one enrichment run.
type Result struct {
	// Citations holds every record that was served from the store or
	// filled by a lookup, keyed by PMID.
	Citations map[string]*reference.Citation `json:"citations"`

	Cached  int `json:"cached"`  // Served from the store
	Fetched int `json:"fetched"` // Filled by a lookup

	// Failed lists PMIDs PubMed flagged as errors, left out of its
	// response, or that belonged to a failed batch. Sorted.
	Failed []string `json:"failed,omitempty"`

	// EdgesUpdated counts graph edges whose citation was filled.
	EdgesUpdated int `json:"edges_updated,omitempty"`
}

// Enricher resolves PubMed identifiers through a Store and a Lookup.
type Enricher struct {
	store       Store
	lookup      Lookup
	groupSize   int
	parallelism int
	log         *log.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithGroupSize sets how many identifiers go into one lookup.
func WithGroupSize(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.groupSize = n
		}
	}
}

// WithParallelism sets how many lookups may run at once.
func WithParallelism(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) EnricherOption {
	return func(e *Enricher) {
		e.log = logger.OrDiscard(l)
	}
}

// NewEnricher creates an Enricher over the given store and lookup.
func NewEnricher(store Store, lookup Lookup, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		store:       store,
		lookup:      lookup,
		groupSize:   DefaultGroupSize,
		parallelism: DefaultParallelism,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// batchOutcome is what one lookup goroutine leaves behind.
type batchOutcome struct {
	summaries map[string]pubmed.Summary
	err       error
}

// GetCitationsByPMIDs ensures a stored citation exists for every identifier
// and fills the unresolved ones from the lookup. Identifiers are trimmed and
// deduplicated first.
//
// A failed batch does not stop the others: its PMIDs are listed in
// Result.Failed and the returned error joins every batch failure, each
// wrapping ErrLookupFailed. Store errors abort the run.
func (e *Enricher) GetCitationsByPMIDs(ctx context.Context, pmids []string) (*Result, error) {
	pmids = normalizePMIDs(pmids)
	res := &Result{Citations: make(map[string]*reference.Citation, len(pmids))}
	e.log.Info("ensuring PubMed identifiers", "count", len(pmids))

	pending := make(map[string]*reference.Citation)
	var unresolved []string
	for _, pmid := range pmids {
		c, err := e.store.GetOrCreateCitation(reference.DatabasePubMed, pmid)
		if err != nil {
			return res, fmt.Errorf("getting citation %s: %w", pmid, err)
		}
		if c.IsResolved() {
			res.Citations[pmid] = c
			res.Cached++
			continue
		}
		pending[pmid] = c
		unresolved = append(unresolved, pmid)
	}
	e.log.Debug("found PubMed identifiers in store", "count", res.Cached)

	if len(unresolved) == 0 {
		return res, nil
	}

	batches := slices.Collect(slices.Chunk(unresolved, e.groupSize))
	e.log.Info("querying PubMed", "identifiers", len(unresolved), "groups", len(batches))

	outcomes := make([]batchOutcome, len(batches))
	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, batch := range batches {
		g.Go(func() error {
			e.log.Info("getting group", "group", i+1, "size", len(batch))
			summaries, err := e.lookup.Summaries(ctx, batch)
			outcomes[i] = batchOutcome{summaries: summaries, err: err}
			return nil
		})
	}
	g.Wait()

	// Outcomes are applied in batch order regardless of completion order.
	var errs []error
	for i, batch := range batches {
		out := outcomes[i]
		if out.err != nil {
			e.log.Warn("PubMed group failed", "group", i+1, "err", out.err)
			res.Failed = append(res.Failed, batch...)
			errs = append(errs, fmt.Errorf("%w: group %d: %w", ErrLookupFailed, i+1, out.err))
			continue
		}

		for _, pmid := range batch {
			s, ok := out.summaries[pmid]
			if !ok || s.Failed() {
				e.log.Warn("error downloading PubMed identifier", "pmid", pmid, "reason", s.Error)
				res.Failed = append(res.Failed, pmid)
				continue
			}
			c := pending[pmid]
			if err := e.apply(c, s); err != nil {
				slices.Sort(res.Failed)
				return res, fmt.Errorf("saving citation %s: %w", pmid, err)
			}
			res.Citations[pmid] = c
			res.Fetched++
		}
	}

	slices.Sort(res.Failed)
	e.log.Info("retrieved PubMed identifiers", "fetched", res.Fetched, "failed", len(res.Failed))
	return res, errors.Join(errs...)
}

// apply copies a summary onto a stored citation and saves it. Authors are
// appended in order and never duplicated. c is only updated once the save
// succeeds, so a failed save leaves it as it was.
func (e *Enricher) apply(c *reference.Citation, s pubmed.Summary) error {
	next := *c
	next.Authors = slices.Clone(c.Authors)

	next.Name = s.FullJournalName
	next.Title = s.Title
	next.Volume = s.Volume
	next.Issue = s.Issue
	next.Pages = s.Pages

	var err error
	if next.First, err = e.optionalAuthor(s.SortFirstAuthor); err != nil {
		return err
	}
	if next.Last, err = e.optionalAuthor(s.LastAuthor); err != nil {
		return err
	}
	for _, name := range s.AuthorNames() {
		a, err := e.store.GetOrCreateAuthor(name)
		if err != nil {
			return err
		}
		next.AddAuthor(a)
	}

	if date, ok := SanitizeDate(s.PubDate); ok {
		next.Date = date
	} else {
		e.log.Warn("date with strange format", "pmid", c.DBID, "pubdate", s.PubDate)
	}

	if err := e.store.SaveCitation(&next); err != nil {
		return err
	}
	*c = next
	return nil
}

func (e *Enricher) optionalAuthor(name string) (*reference.Author, error) {
	if name == "" {
		return nil, nil
	}
	return e.store.GetOrCreateAuthor(name)
}

// EnrichPubMedCitations fills in place the PubMed citations of g that lack a
// journal, date or author list. Complete citations are never looked up.
// The error has the same meaning as for GetCitationsByPMIDs; edges whose
// identifiers did resolve are filled either way.
func (e *Enricher) EnrichPubMedCitations(ctx context.Context, g *graph.Graph) (*Result, error) {
	var pmids []string
	for c := range incompleteCitations(g) {
		pmids = append(pmids, c.Reference)
	}
	if len(pmids) == 0 {
		e.log.Debug("no incomplete PubMed citations", "graph", g.String())
		return &Result{Citations: map[string]*reference.Citation{}}, nil
	}

	res, err := e.GetCitationsByPMIDs(ctx, pmids)
	if res == nil {
		return nil, err
	}

	for c := range incompleteCitations(g) {
		stored, ok := res.Citations[strings.TrimSpace(c.Reference)]
		if !ok {
			continue
		}
		fillCitation(c, stored)
		res.EdgesUpdated++
	}
	return res, err
}

// incompleteCitations yields the PubMed citations of g's edges that are not
// yet complete.
func incompleteCitations(g *graph.Graph) iter.Seq[*graph.Citation] {
	return func(yield func(*graph.Citation) bool) {
		for edge := range graph.FilterEdges(g, graph.EdgeHasPubMedCitation) {
			c := edge.Data[graph.CitationKey].(*graph.Citation)
			if c.IsComplete() {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// fillCitation copies the non-empty fields of a stored record onto an edge
// citation.
func fillCitation(dst *graph.Citation, src *reference.Citation) {
	set := func(field *string, v string) {
		if v != "" {
			*field = v
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.Title, src.Title)
	set(&dst.Volume, src.Volume)
	set(&dst.Issue, src.Issue)
	set(&dst.Pages, src.Pages)
	set(&dst.Date, src.Date)
	if src.First != nil {
		dst.FirstAuthor = src.First.Name
	}
	if src.Last != nil {
		dst.LastAuthor = src.Last.Name
	}
	if len(src.Authors) > 0 {
		dst.Authors = src.AuthorNames()
	}
}

func normalizePMIDs(pmids []string) []string {
	out := make([]string, 0, len(pmids))
	for _, p := range pmids {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
