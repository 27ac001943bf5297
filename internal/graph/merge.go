package graph

import "reflect"

// LeftFullMerge adds every node and edge of h to g, in place. h is never
// modified and nothing in g aliases h afterwards.
//
// Nodes of h missing from g are copied with their attributes; a node present
// in both keeps g's attributes. For each edge of h, in order:
//   - an unqualified edge is added under its reserved key unless g already
//     has that key between the pair;
//   - a qualified edge is added under a fresh key if g has no edge between
//     the pair, or if no qualified edge of g between the pair has exactly
//     the same attributes.
//
// The duplicate check sees edges added earlier in the same call, so the
// attribute multiset that ends up in g does not depend on h's edge order.
func LeftFullMerge(g, h *Graph) {
	for _, n := range h.nodes {
		if g.HasNode(n) {
			continue
		}
		g.insertNode(n, h.nodeData[n].Clone())
	}

	for _, id := range h.edges {
		d := h.edgeData[id]
		switch {
		case id.key.IsUnqualified():
			if !g.HasEdge(id.u, id.v, id.key) {
				g.insertEdge(id.u, id.v, id.key, d.Clone())
			}
		case !g.HasAnyEdge(id.u, id.v):
			g.addEdgeData(id.u, id.v, d.Clone())
		case g.hasQualifiedDuplicate(id.u, id.v, d):
			continue
		default:
			g.addEdgeData(id.u, id.v, d.Clone())
		}
	}
}

// hasQualifiedDuplicate reports whether a qualified edge u -> v with
// attributes equal to d exists.
func (g *Graph) hasQualifiedDuplicate(u, v Node, d Attributes) bool {
	for _, k := range g.pairs[nodePair{u: u, v: v}] {
		if k.IsUnqualified() {
			continue
		}
		if reflect.DeepEqual(g.edgeData[edgeID{u: u, v: v, key: k}], d) {
			return true
		}
	}
	return false
}
