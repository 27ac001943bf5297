package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// numberedUniverse builds the graph 1->2, 2->3, 3->7, 1->4, 1->5, 5->6, 8->2
// with nodes named by their number.
func numberedUniverse(t *testing.T) (*Graph, map[int]Node) {
	t.Helper()
	g := New()
	nodes := make(map[int]Node)
	node := func(i int) Node {
		if n, ok := nodes[i]; ok {
			return n
		}
		n := g.AddSimpleNode(Abundance, "TEST", string(rune('0'+i)))
		nodes[i] = n
		return n
	}
	for _, p := range [][2]int{{1, 2}, {2, 3}, {3, 7}, {1, 4}, {1, 5}, {5, 6}, {8, 2}} {
		if _, err := g.AddEdge(node(p[0]), node(p[1]), Association); err != nil {
			t.Fatal(err)
		}
	}
	return g, nodes
}

func number(n Node) int {
	return int(n.Name[0] - '0')
}

func TestFilterNodes(t *testing.T) {
	g, _ := numberedUniverse(t)

	even := func(_ *Graph, n Node) bool { return number(n)%2 == 0 }
	big := func(_ *Graph, n Node) bool { return number(n) > 3 }

	tests := []struct {
		name  string
		preds []NodePredicate
		want  int
	}{
		{name: "no predicates", preds: nil, want: 8},
		{name: "permissive", preds: []NodePredicate{KeepNodePermissive}, want: 8},
		{name: "even and big", preds: []NodePredicate{even, big}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountPassedNodeFilter(g, tt.preds...); got != tt.want {
				t.Errorf("CountPassedNodeFilter() = %d, want %d", got, tt.want)
			}
		})
	}

	var got []int
	for n := range FilterNodes(g, even, big) {
		got = append(got, number(n))
	}
	if diff := cmp.Diff([]int{4, 6, 8}, got); diff != "" {
		t.Errorf("FilterNodes() (-want +got):\n%s", diff)
	}
}

func TestFilterEdges(t *testing.T) {
	g, _ := numberedUniverse(t)

	oddSource := func(_ *Graph, e Edge) bool { return number(e.Source)%2 != 0 }
	evenTarget := func(_ *Graph, e Edge) bool { return number(e.Target)%2 == 0 }

	var got [][2]int
	for e := range FilterEdges(g, oddSource, evenTarget) {
		got = append(got, [2]int{number(e.Source), number(e.Target)})
	}
	want := [][2]int{{1, 2}, {1, 4}, {5, 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterEdges() (-want +got):\n%s", diff)
	}

	if n := CountPassedEdgeFilter(g, oddSource, evenTarget); n != 3 {
		t.Errorf("CountPassedEdgeFilter() = %d, want 3", n)
	}
	if n := CountPassedEdgeFilter(g, AndEdgePredicates()); n != 7 {
		t.Errorf("empty AndEdgePredicates passed %d edges, want 7", n)
	}
	if n := CountPassedEdgeFilter(g, KeepEdgePermissive); n != 7 {
		t.Errorf("KeepEdgePermissive passed %d edges, want 7", n)
	}
}

func annotated(kv map[string][]string) Edge {
	return Edge{Data: Attributes{AnnotationsKey: NewAnnotations(kv)}}
}

func TestAnnotationDictAnyFilter(t *testing.T) {
	tests := []struct {
		name  string
		edge  map[string][]string
		query map[string][]string
		want  bool
	}{
		{name: "subset", edge: map[string][]string{"A": {"1", "2"}}, query: map[string][]string{"A": {"1"}}, want: true},
		{name: "equal", edge: map[string][]string{"A": {"1", "2"}}, query: map[string][]string{"A": {"1", "2"}}, want: true},
		{name: "superset", edge: map[string][]string{"A": {"1", "2"}}, query: map[string][]string{"A": {"1", "2", "3"}}, want: true},
		{name: "second key decides", edge: map[string][]string{"A": {"1", "2"}, "B": {"X"}}, query: map[string][]string{"A": {"3"}, "B": {"X"}}, want: false},
		{name: "disjoint", edge: map[string][]string{"A": {"1", "2"}}, query: map[string][]string{"A": {"3"}}, want: false},
		{name: "both disjoint", edge: map[string][]string{"A": {"1", "2"}, "B": {"X"}}, query: map[string][]string{"A": {"3"}, "B": {"Y"}}, want: false},
		{name: "missing key", edge: map[string][]string{"A": {"1"}}, query: map[string][]string{"B": {"1"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnotationDictAnyFilter(annotated(tt.edge), NewAnnotations(tt.query)); got != tt.want {
				t.Errorf("AnnotationDictAnyFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnnotationDictAllFilter(t *testing.T) {
	tests := []struct {
		name  string
		edge  map[string][]string
		query map[string][]string
		want  bool
	}{
		{name: "single", edge: map[string][]string{"A": {"1"}}, query: map[string][]string{"A": {"1"}}, want: true},
		{name: "equal", edge: map[string][]string{"A": {"1", "2"}}, query: map[string][]string{"A": {"1", "2"}}, want: true},
		{name: "two keys", edge: map[string][]string{"A": {"1", "2"}, "B": {"X"}}, query: map[string][]string{"A": {"1", "2"}, "B": {"X"}}, want: true},
		{name: "query too large", edge: map[string][]string{"A": {"1", "2"}, "B": {"X"}}, query: map[string][]string{"A": {"1", "2", "3"}, "B": {"X", "Y"}}, want: false},
		{name: "missing value", edge: map[string][]string{"A": {"1"}}, query: map[string][]string{"A": {"1", "2"}}, want: false},
		{name: "wrong value", edge: map[string][]string{"A": {"1"}}, query: map[string][]string{"A": {"2"}}, want: false},
		{name: "wrong key", edge: map[string][]string{"A": {"1"}}, query: map[string][]string{"B": {"1"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnotationDictAllFilter(annotated(tt.edge), NewAnnotations(tt.query)); got != tt.want {
				t.Errorf("AnnotationDictAllFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildAnnotationFilters_OnGraph(t *testing.T) {
	g := New()
	u, v := twoProteins(g)
	if _, err := g.AddQualifiedEdge(u, v, Increases, "e", nil, NewAnnotations(map[string][]string{"A": {"1", "2", "3"}})); err != nil {
		t.Fatal(err)
	}

	allTests := []struct {
		values []string
		want   int
	}{
		{values: []string{"1"}, want: 1},
		{values: []string{"1", "2"}, want: 1},
		{values: []string{"1", "2", "3"}, want: 1},
		{values: []string{"1", "2", "3", "4"}, want: 0},
		{values: []string{"4"}, want: 0},
	}
	for _, tt := range allTests {
		q := NewAnnotations(map[string][]string{"A": tt.values})
		if got := CountPassedEdgeFilter(g, BuildAnnotationDictAllFilter(q)); got != tt.want {
			t.Errorf("all filter %v passed %d, want %d", tt.values, got, tt.want)
		}
	}

	if got := CountPassedEdgeFilter(g, BuildAnnotationDictAnyFilter(NewAnnotations(map[string][]string{"A": {"3", "9"}}))); got != 1 {
		t.Errorf("any filter passed %d, want 1", got)
	}
}

func TestPubMedIdentifiers(t *testing.T) {
	g := New()
	u, v := twoProteins(g)
	w := g.AddSimpleNode(Protein, "HGNC", "VCP")
	g.AddIncreases(u, v, " 9611787 ", "a", nil)
	g.AddIncreases(v, w, "9611787", "b", nil)
	g.AddDecreases(u, w, "10855792", "c", nil)
	g.AddQualifiedEdge(u, w, Association, "d", &Citation{Type: "Book", Reference: "ISBN"}, nil)
	g.AddUnqualifiedEdge(w, u, IsA)

	want := []string{"10855792", "9611787"}
	if diff := cmp.Diff(want, PubMedIdentifiers(g)); diff != "" {
		t.Errorf("PubMedIdentifiers() (-want +got):\n%s", diff)
	}
	if n := CountPassedEdgeFilter(g, EdgeHasPubMedCitation); n != 3 {
		t.Errorf("EdgeHasPubMedCitation passed %d edges, want 3", n)
	}
}
