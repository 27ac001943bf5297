// Package graph models biological knowledge expressed in BEL as a directed
// multigraph. Nodes are typed biological entities identified by
// (function, namespace, name); edges are keyed relationships that carry
// their provenance (citation, evidence and annotations).
//
// A Graph is not safe for concurrent mutation.
package graph

import (
	"errors"
	"fmt"
	"iter"
)

// Lookup errors.
var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrAttributeNotFound  = errors.New("edge attribute not set")
	ErrInvalidEdgeKey     = errors.New("invalid edge key")
	ErrUnknownDocumentKey = errors.New("unknown document key")
)

// Node is the composite identity of a graph node.
type Node struct {
	Function  Function
	Namespace string
	Name      string
}

func (n Node) String() string {
	return fmt.Sprintf("%s(%s:%s)", n.Function, n.Namespace, n.Name)
}

// EdgeKey distinguishes parallel edges between the same ordered pair.
// Qualified keys are non-negative; unqualified keys are negative and fixed
// per relation.
type EdgeKey int

// IsUnqualified reports whether k is a reserved unqualified key.
func (k EdgeKey) IsUnqualified() bool {
	return k < 0
}

// Edge is one keyed edge together with its live attribute bag.
type Edge struct {
	Source Node
	Target Node
	Key    EdgeKey
	Data   Attributes
}

type edgeID struct {
	u, v Node
	key  EdgeKey
}

type nodePair struct {
	u, v Node
}

// Warning is one entry of the parse warning log.
type Warning struct {
	LineNumber int
	Line       string
	Err        error
	Context    map[string]any
}

// Graph is a BEL knowledge graph.
type Graph struct {
	document          map[string]string
	namespaceURL      map[string]string
	namespaceOWL      map[string]string
	namespacePattern  map[string]string
	annotationURL     map[string]string
	annotationOWL     map[string]string
	annotationPattern map[string]string
	annotationList    map[string]map[string]bool
	libraryVersion    string

	nodes    []Node
	nodeData map[Node]Attributes

	edges    []edgeID
	edgeData map[edgeID]Attributes
	pairs    map[nodePair][]EdgeKey
	nextKey  EdgeKey

	warnings []Warning
}

// Option configures a new Graph.
type Option func(*Graph)

// WithName sets the document name.
func WithName(name string) Option {
	return func(g *Graph) {
		g.document[MetadataName] = name
	}
}

// WithVersion sets the document version.
func WithVersion(version string) Option {
	return func(g *Graph) {
		g.document[MetadataVersion] = version
	}
}

// WithDescription sets the document description.
func WithDescription(description string) Option {
	return func(g *Graph) {
		g.document[MetadataDescription] = description
	}
}

// WithDocument copies already-normalized document metadata.
func WithDocument(doc map[string]string) Option {
	return func(g *Graph) {
		for k, v := range doc {
			g.document[k] = v
		}
	}
}

// New returns an empty graph with all metadata registries initialized.
func New(opts ...Option) *Graph {
	g := &Graph{
		document:          make(map[string]string),
		namespaceURL:      make(map[string]string),
		namespaceOWL:      make(map[string]string),
		namespacePattern:  make(map[string]string),
		annotationURL:     make(map[string]string),
		annotationOWL:     make(map[string]string),
		annotationPattern: make(map[string]string),
		annotationList:    make(map[string]map[string]bool),
		libraryVersion:    LibraryVersion,
		nodeData:          make(map[Node]Attributes),
		edgeData:          make(map[edgeID]Attributes),
		pairs:             make(map[nodePair][]EdgeKey),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Document returns the document metadata, keyed by normalized names.
func (g *Graph) Document() map[string]string { return g.document }

// SetDocument stores a "SET DOCUMENT" entry under its normalized key.
func (g *Graph) SetDocument(key, value string) error {
	norm, ok := documentKeys[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDocumentKey, key)
	}
	g.document[norm] = value
	return nil
}

// Name returns the document name, or "" if unset.
func (g *Graph) Name() string { return g.document[MetadataName] }

// SetName sets the document name.
func (g *Graph) SetName(name string) { g.document[MetadataName] = name }

// Version returns the document version, or "" if unset.
func (g *Graph) Version() string { return g.document[MetadataVersion] }

// Description returns the document description, or "" if unset.
func (g *Graph) Description() string { return g.document[MetadataDescription] }

// NamespaceURL maps namespace keywords to BELNS URLs.
func (g *Graph) NamespaceURL() map[string]string { return g.namespaceURL }

// NamespaceOWL maps namespace keywords to OWL URLs.
func (g *Graph) NamespaceOWL() map[string]string { return g.namespaceOWL }

// NamespacePattern maps namespace keywords to validation regexes.
func (g *Graph) NamespacePattern() map[string]string { return g.namespacePattern }

// AnnotationURL maps annotation keywords to BELANNO URLs.
func (g *Graph) AnnotationURL() map[string]string { return g.annotationURL }

// AnnotationOWL maps annotation keywords to OWL URLs.
func (g *Graph) AnnotationOWL() map[string]string { return g.annotationOWL }

// AnnotationPattern maps annotation keywords to validation regexes.
func (g *Graph) AnnotationPattern() map[string]string { return g.annotationPattern }

// AnnotationList maps locally defined annotation keywords to their legal values.
func (g *Graph) AnnotationList() map[string]map[string]bool { return g.annotationList }

// LibraryVersion returns the version of this package that produced the graph.
func (g *Graph) LibraryVersion() string { return g.libraryVersion }

func (g *Graph) String() string {
	return fmt.Sprintf("%s v%s", g.Name(), g.Version())
}

// AddWarning appends an entry to the warning log. A nil context is stored
// as an empty map.
func (g *Graph) AddWarning(lineNumber int, line string, err error, context map[string]any) {
	if context == nil {
		context = map[string]any{}
	}
	g.warnings = append(g.warnings, Warning{
		LineNumber: lineNumber,
		Line:       line,
		Err:        err,
		Context:    context,
	})
}

// Warnings returns the warning log in insertion order.
func (g *Graph) Warnings() []Warning {
	out := make([]Warning, len(g.warnings))
	copy(out, g.warnings)
	return out
}

// AddSimpleNode inserts the node (function, namespace, name) if it is not
// already present and returns its key.
func (g *Graph) AddSimpleNode(function Function, namespace, name string) Node {
	n := Node{Function: function, Namespace: namespace, Name: name}
	g.ensureNode(n)
	return n
}

// ensureNode inserts n with its key attributes if absent.
func (g *Graph) ensureNode(n Node) {
	if _, ok := g.nodeData[n]; ok {
		return
	}
	g.insertNode(n, Attributes{
		FunctionKey:  n.Function,
		NamespaceKey: n.Namespace,
		NameKey:      n.Name,
	})
}

func (g *Graph) insertNode(n Node, data Attributes) {
	g.nodes = append(g.nodes, n)
	g.nodeData[n] = data
}

// HasNode reports whether n is in the graph.
func (g *Graph) HasNode(n Node) bool {
	_, ok := g.nodeData[n]
	return ok
}

// NumberOfNodes returns the number of nodes.
func (g *Graph) NumberOfNodes() int { return len(g.nodes) }

// NumberOfEdges returns the number of edges.
func (g *Graph) NumberOfEdges() int { return len(g.edges) }

// NodeData returns the live attribute bag of n.
func (g *Graph) NodeData(n Node) (Attributes, error) {
	d, ok := g.nodeData[n]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, n)
	}
	return d, nil
}

func (g *Graph) nodeString(n Node, key string) (string, bool) {
	s, ok := g.nodeData[n][key].(string)
	return s, ok
}

// NodeName returns the node's name, or "", false if it has none.
func (g *Graph) NodeName(n Node) (string, bool) { return g.nodeString(n, NameKey) }

// NodeLabel returns the node's label, or "", false if unset.
func (g *Graph) NodeLabel(n Node) (string, bool) { return g.nodeString(n, LabelKey) }

// NodeDescription returns the node's description, or "", false if unset.
func (g *Graph) NodeDescription(n Node) (string, bool) { return g.nodeString(n, DescriptionKey) }

// SetNodeLabel sets the node's label.
func (g *Graph) SetNodeLabel(n Node, label string) error {
	return g.setNodeString(n, LabelKey, label)
}

// SetNodeDescription sets the node's description.
func (g *Graph) SetNodeDescription(n Node, description string) error {
	return g.setNodeString(n, DescriptionKey, description)
}

func (g *Graph) setNodeString(n Node, key, value string) error {
	d, err := g.NodeData(n)
	if err != nil {
		return err
	}
	d[key] = value
	return nil
}

// Nodes yields every node whose attributes contain all of constraints.
// A nil or empty constraint set matches every node. Each query is a linear
// scan over the nodes in insertion order. The yielded bags are live.
func (g *Graph) Nodes(constraints Attributes) iter.Seq2[Node, Attributes] {
	return func(yield func(Node, Attributes) bool) {
		for _, n := range g.nodes {
			d := g.nodeData[n]
			if !SubdictMatches(d, constraints) {
				continue
			}
			if !yield(n, d) {
				return
			}
		}
	}
}

// Edges yields every edge whose attributes contain all of constraints, in
// insertion order. Like Nodes it is a linear scan and yields live bags.
func (g *Graph) Edges(constraints Attributes) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, id := range g.edges {
			d := g.edgeData[id]
			if !SubdictMatches(d, constraints) {
				continue
			}
			if !yield(Edge{Source: id.u, Target: id.v, Key: id.key, Data: d}) {
				return
			}
		}
	}
}
