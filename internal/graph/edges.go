package graph

import (
	"fmt"
)

type edgeOptions struct {
	key         *EdgeKey
	citation    *Citation
	evidence    *string
	annotations Annotations
}

// EdgeOption configures AddEdge.
type EdgeOption func(*edgeOptions)

// WithKey requests a specific edge key.
func WithKey(k EdgeKey) EdgeOption {
	return func(o *edgeOptions) {
		o.key = &k
	}
}

// WithCitation attaches a citation.
func WithCitation(c *Citation) EdgeOption {
	return func(o *edgeOptions) {
		o.citation = c
	}
}

// WithEvidence attaches the supporting evidence text.
func WithEvidence(evidence string) EdgeOption {
	return func(o *edgeOptions) {
		o.evidence = &evidence
	}
}

// WithAnnotations attaches contextual annotations.
func WithAnnotations(a Annotations) EdgeOption {
	return func(o *edgeOptions) {
		o.annotations = a
	}
}

// AddEdge inserts an edge u -> v and returns its key. Missing endpoints are
// created from their keys.
//
// Unqualified relations always use their reserved key; if that edge already
// exists the call is a no-op. A reserved key may not be combined with a
// citation, evidence or annotations. Without WithKey a qualified edge gets a fresh key;
// an explicit non-negative key that already exists has its attributes
// replaced.
func (g *Graph) AddEdge(u, v Node, relation Relation, opts ...EdgeOption) (EdgeKey, error) {
	var o edgeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if reserved, ok := UnqualifiedKey(relation); ok {
		if o.key != nil && *o.key != reserved {
			return 0, fmt.Errorf("%w: %d for unqualified relation %s (want %d)", ErrInvalidEdgeKey, *o.key, relation, reserved)
		}
		if o.citation != nil || o.evidence != nil || len(o.annotations) > 0 {
			return 0, fmt.Errorf("%w: unqualified relation %s cannot carry provenance", ErrInvalidEdgeKey, relation)
		}
		if g.HasEdge(u, v, reserved) {
			return reserved, nil
		}
		g.insertEdge(u, v, reserved, Attributes{
			RelationKey:    relation,
			AnnotationsKey: Annotations{},
		})
		return reserved, nil
	}

	if o.key != nil && o.key.IsUnqualified() {
		return 0, fmt.Errorf("%w: %d is reserved, %s is qualified", ErrInvalidEdgeKey, *o.key, relation)
	}

	data := Attributes{RelationKey: relation}
	if o.annotations != nil {
		data[AnnotationsKey] = o.annotations
	} else {
		data[AnnotationsKey] = Annotations{}
	}
	if o.citation != nil {
		data[CitationKey] = o.citation
	}
	if o.evidence != nil {
		data[EvidenceKey] = *o.evidence
	}

	if o.key == nil {
		return g.addEdgeData(u, v, data), nil
	}
	g.insertEdge(u, v, *o.key, data)
	return *o.key, nil
}

// AddQualifiedEdge inserts an edge carrying provenance and returns its fresh key.
func (g *Graph) AddQualifiedEdge(u, v Node, relation Relation, evidence string, citation *Citation, annotations Annotations) (EdgeKey, error) {
	return g.AddEdge(u, v, relation,
		WithEvidence(evidence),
		WithCitation(citation),
		WithAnnotations(annotations),
	)
}

// AddUnqualifiedEdge inserts the structural edge u -> v for relation unless
// it already exists.
func (g *Graph) AddUnqualifiedEdge(u, v Node, relation Relation) (EdgeKey, error) {
	if !relation.IsUnqualified() {
		return 0, fmt.Errorf("%w: %s is not an unqualified relation", ErrInvalidEdgeKey, relation)
	}
	return g.AddEdge(u, v, relation)
}

// AddIncreases asserts that u increases v.
func (g *Graph) AddIncreases(u, v Node, pmid, evidence string, annotations Annotations) (EdgeKey, error) {
	return g.AddQualifiedEdge(u, v, Increases, evidence, PubMedCitation(pmid), annotations)
}

// AddDecreases asserts that u decreases v.
func (g *Graph) AddDecreases(u, v Node, pmid, evidence string, annotations Annotations) (EdgeKey, error) {
	return g.AddQualifiedEdge(u, v, Decreases, evidence, PubMedCitation(pmid), annotations)
}

// addEdgeData inserts data under a fresh qualified key.
func (g *Graph) addEdgeData(u, v Node, data Attributes) EdgeKey {
	k := g.nextKey
	g.insertEdge(u, v, k, data)
	return k
}

// insertEdge stores data under (u, v, k), replacing any existing bag.
func (g *Graph) insertEdge(u, v Node, k EdgeKey, data Attributes) {
	g.ensureNode(u)
	g.ensureNode(v)

	id := edgeID{u: u, v: v, key: k}
	if _, exists := g.edgeData[id]; !exists {
		g.edges = append(g.edges, id)
		p := nodePair{u: u, v: v}
		g.pairs[p] = append(g.pairs[p], k)
	}
	g.edgeData[id] = data
	if k >= g.nextKey {
		g.nextKey = k + 1
	}
}

// HasEdge reports whether the edge (u, v, k) exists.
func (g *Graph) HasEdge(u, v Node, k EdgeKey) bool {
	_, ok := g.edgeData[edgeID{u: u, v: v, key: k}]
	return ok
}

// HasAnyEdge reports whether at least one edge u -> v exists.
func (g *Graph) HasAnyEdge(u, v Node) bool {
	return len(g.pairs[nodePair{u: u, v: v}]) > 0
}

// EdgeKeys returns the keys of the edges u -> v in insertion order.
func (g *Graph) EdgeKeys(u, v Node) []EdgeKey {
	keys := g.pairs[nodePair{u: u, v: v}]
	out := make([]EdgeKey, len(keys))
	copy(out, keys)
	return out
}

// EdgeData returns the live attribute bag of (u, v, k).
func (g *Graph) EdgeData(u, v Node, k EdgeKey) (Attributes, error) {
	d, ok := g.edgeData[edgeID{u: u, v: v, key: k}]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s key %d", ErrEdgeNotFound, u, v, k)
	}
	return d, nil
}

func (g *Graph) edgeAttr(u, v Node, k EdgeKey, attr string) (any, error) {
	d, err := g.EdgeData(u, v, k)
	if err != nil {
		return nil, err
	}
	val, ok := d[attr]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s -> %s key %d", ErrAttributeNotFound, attr, u, v, k)
	}
	return val, nil
}

// EdgeCitation returns the citation of (u, v, k).
func (g *Graph) EdgeCitation(u, v Node, k EdgeKey) (*Citation, error) {
	val, err := g.edgeAttr(u, v, k, CitationKey)
	if err != nil {
		return nil, err
	}
	c, _ := val.(*Citation)
	return c, nil
}

// EdgeEvidence returns the evidence text of (u, v, k).
func (g *Graph) EdgeEvidence(u, v Node, k EdgeKey) (string, error) {
	val, err := g.edgeAttr(u, v, k, EvidenceKey)
	if err != nil {
		return "", err
	}
	s, _ := val.(string)
	return s, nil
}

// EdgeAnnotations returns the annotations of (u, v, k).
func (g *Graph) EdgeAnnotations(u, v Node, k EdgeKey) (Annotations, error) {
	val, err := g.edgeAttr(u, v, k, AnnotationsKey)
	if err != nil {
		return nil, err
	}
	a, _ := val.(Annotations)
	return a, nil
}

// EdgeRelation returns the relation of (u, v, k).
func (g *Graph) EdgeRelation(u, v Node, k EdgeKey) (Relation, error) {
	val, err := g.edgeAttr(u, v, k, RelationKey)
	if err != nil {
		return "", err
	}
	r, _ := val.(Relation)
	return r, nil
}
