package graph

import (
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func groupingFixture(t *testing.T) *Graph {
	t.Helper()
	g := New(WithName("cells"), WithVersion("2.0"))
	g.AnnotationURL()["CellLine"] = "https://example.org/cellline.belanno"
	g.AnnotationList()["Confidence"] = map[string]bool{"High": true, "Low": true}

	a := g.AddSimpleNode(Protein, "HGNC", "A")
	b := g.AddSimpleNode(Protein, "HGNC", "B")
	c := g.AddSimpleNode(Protein, "HGNC", "C")

	for _, e := range []struct {
		u, v  Node
		lines []string
	}{
		{a, b, []string{"HeLa"}},
		{b, c, []string{"HeLa", "LNCaP"}},
		{a, c, nil},
	} {
		var ann Annotations
		if e.lines != nil {
			ann = NewAnnotations(map[string][]string{"CellLine": e.lines})
		}
		if _, err := g.AddQualifiedEdge(e.u, e.v, Increases, "ev", PubMedCitation("1"), ann); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestSubgraphsByAnnotation_KeepUndefined(t *testing.T) {
	g := groupingFixture(t)

	groups := SubgraphsByAnnotation(g, "CellLine", true, DefaultUndefinedSentinel)

	keys := slices.Sorted(maps.Keys(groups))
	if diff := cmp.Diff([]string{"HeLa", "LNCaP", "Undefined"}, keys); diff != "" {
		t.Fatalf("group keys (-want +got):\n%s", diff)
	}

	wantEdges := map[string]int{"HeLa": 2, "LNCaP": 1, "Undefined": 1}
	for k, n := range wantEdges {
		if got := groups[k].NumberOfEdges(); got != n {
			t.Errorf("%s has %d edges, want %d", k, got, n)
		}
	}

	hela := groups["HeLa"]
	if hela.String() != "cells v2.0" {
		t.Errorf("subgraph String() = %q, metadata not copied", hela.String())
	}
	if hela.AnnotationURL()["CellLine"] == "" {
		t.Error("annotation URL registry not copied")
	}
	if !hela.AnnotationList()["Confidence"]["High"] {
		t.Error("annotation list not copied")
	}
}

func TestSubgraphsByAnnotation_DisregardUndefined(t *testing.T) {
	g := groupingFixture(t)

	groups := SubgraphsByAnnotation(g, "CellLine", false, DefaultUndefinedSentinel)

	if _, ok := groups[DefaultUndefinedSentinel]; ok {
		t.Error("sentinel group present with keepUndefined=false")
	}
	if len(groups) != 2 {
		t.Errorf("len(groups) = %d, want 2", len(groups))
	}
}

func TestSubgraphsByAnnotation_SourceUntouched(t *testing.T) {
	g := groupingFixture(t)
	groups := SubgraphsByAnnotation(g, "CellLine", true, "none")

	for e := range groups["HeLa"].Edges(nil) {
		e.Data[CitationKey].(*Citation).Name = "changed"
	}
	for e := range g.Edges(nil) {
		if e.Data[CitationKey].(*Citation).Name != "" {
			t.Fatal("subgraph edge aliases the source graph")
		}
	}
}
