package graph

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// NodePredicate decides whether a node passes a filter.
type NodePredicate func(g *Graph, n Node) bool

// EdgePredicate decides whether an edge passes a filter.
type EdgePredicate func(g *Graph, e Edge) bool

// KeepNodePermissive passes every node.
func KeepNodePermissive(*Graph, Node) bool { return true }

// KeepEdgePermissive passes every edge.
func KeepEdgePermissive(*Graph, Edge) bool { return true }

// AndNodePredicates passes nodes that pass all of preds. With no
// predicates every node passes.
func AndNodePredicates(preds ...NodePredicate) NodePredicate {
	return func(g *Graph, n Node) bool {
		for _, p := range preds {
			if !p(g, n) {
				return false
			}
		}
		return true
	}
}

// AndEdgePredicates passes edges that pass all of preds. With no
// predicates every edge passes.
func AndEdgePredicates(preds ...EdgePredicate) EdgePredicate {
	return func(g *Graph, e Edge) bool {
		for _, p := range preds {
			if !p(g, e) {
				return false
			}
		}
		return true
	}
}

// FilterNodes yields the nodes passing all of preds.
func FilterNodes(g *Graph, preds ...NodePredicate) iter.Seq[Node] {
	keep := AndNodePredicates(preds...)
	return func(yield func(Node) bool) {
		for n := range g.Nodes(nil) {
			if keep(g, n) && !yield(n) {
				return
			}
		}
	}
}

// FilterEdges yields the edges passing all of preds.
func FilterEdges(g *Graph, preds ...EdgePredicate) iter.Seq[Edge] {
	keep := AndEdgePredicates(preds...)
	return func(yield func(Edge) bool) {
		for e := range g.Edges(nil) {
			if keep(g, e) && !yield(e) {
				return
			}
		}
	}
}

// CountPassedNodeFilter counts the nodes passing all of preds.
func CountPassedNodeFilter(g *Graph, preds ...NodePredicate) int {
	count := 0
	for range FilterNodes(g, preds...) {
		count++
	}
	return count
}

// CountPassedEdgeFilter counts the edges passing all of preds.
func CountPassedEdgeFilter(g *Graph, preds ...EdgePredicate) int {
	count := 0
	for range FilterEdges(g, preds...) {
		count++
	}
	return count
}

// edgeAnnotations returns an edge's annotations, or nil if it has none.
func edgeAnnotations(e Edge) Annotations {
	a, _ := e.Data[AnnotationsKey].(Annotations)
	return a
}

// AnnotationDictAnyFilter reports whether, for every keyword in query, the
// edge shares at least one value with it.
func AnnotationDictAnyFilter(e Edge, query Annotations) bool {
	have := edgeAnnotations(e)
	for k, wanted := range query {
		values, ok := have[k]
		if !ok {
			return false
		}
		found := false
		for v := range wanted {
			if values[v] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AnnotationDictAllFilter reports whether, for every keyword in query, the
// edge has all of its values.
func AnnotationDictAllFilter(e Edge, query Annotations) bool {
	have := edgeAnnotations(e)
	for k, wanted := range query {
		values, ok := have[k]
		if !ok {
			return false
		}
		for v := range wanted {
			if !values[v] {
				return false
			}
		}
	}
	return true
}

// BuildAnnotationDictAnyFilter returns an EdgePredicate for AnnotationDictAnyFilter.
func BuildAnnotationDictAnyFilter(query Annotations) EdgePredicate {
	return func(_ *Graph, e Edge) bool {
		return AnnotationDictAnyFilter(e, query)
	}
}

// BuildAnnotationDictAllFilter returns an EdgePredicate for AnnotationDictAllFilter.
func BuildAnnotationDictAllFilter(query Annotations) EdgePredicate {
	return func(_ *Graph, e Edge) bool {
		return AnnotationDictAllFilter(e, query)
	}
}

// EdgeHasPubMedCitation passes edges whose citation references PubMed.
func EdgeHasPubMedCitation(_ *Graph, e Edge) bool {
	c, _ := e.Data[CitationKey].(*Citation)
	return c.IsPubMed()
}

// PubMedIdentifiers returns the distinct, trimmed PubMed identifiers cited
// by the graph's edges, sorted.
func PubMedIdentifiers(g *Graph) []string {
	seen := make(map[string]bool)
	for e := range FilterEdges(g, EdgeHasPubMedCitation) {
		c := e.Data[CitationKey].(*Citation)
		seen[strings.TrimSpace(c.Reference)] = true
	}
	return slices.Sorted(maps.Keys(seen))
}
