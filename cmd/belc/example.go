package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/belgraph/internal/example"
	"github.com/matsen/belgraph/internal/graph"
)

var exampleEnrich bool

func init() {
	exampleCmd.Flags().BoolVar(&exampleEnrich, "enrich", false, "Fill the example's citations from the store and PubMed")
	exampleCmd.Flags().IntVar(&groupSizeFlag, "group-size", 0, "PubMed identifiers per request (default from config, 200)")
	exampleCmd.Flags().IntVar(&parallelismFlag, "parallel", 0, "Concurrent PubMed requests (default from config, 1)")
	rootCmd.AddCommand(exampleCmd)
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Summarize the EGF pathway example graph",
	Long: `Build the EGF pathway example graph and print a summary of it.

With --enrich, the PubMed citations on its edges are resolved through the
citation store first.

Example:
  belc example --enrich --human`,
	Args: cobra.NoArgs,
	Run:  runExample,
}

// EdgeSummary describes one qualified edge of a graph.
type EdgeSummary struct {
	Source   string          `json:"source"`
	Target   string          `json:"target"`
	Relation graph.Relation  `json:"relation"`
	Citation *graph.Citation `json:"citation,omitempty"`
}

// GraphSummary is the response for the example command.
type GraphSummary struct {
	Name          string        `json:"name"`
	Version       string        `json:"version"`
	Nodes         int           `json:"nodes"`
	Edges         int           `json:"edges"`
	PubMedIDs     []string      `json:"pubmed_ids"`
	Qualified     []EdgeSummary `json:"qualified_edges"`
	EdgesEnriched int           `json:"edges_enriched,omitempty"`
	Failed        []string      `json:"failed,omitempty"`
	Error         string        `json:"error,omitempty"`
}

func summarizeGraph(g *graph.Graph) GraphSummary {
	s := GraphSummary{
		Name:      g.Name(),
		Version:   g.Version(),
		Nodes:     g.NumberOfNodes(),
		Edges:     g.NumberOfEdges(),
		PubMedIDs: graph.PubMedIdentifiers(g),
	}
	for e := range g.Edges(nil) {
		if e.Key.IsUnqualified() {
			continue
		}
		rel, _ := e.Data[graph.RelationKey].(graph.Relation)
		c, _ := e.Data[graph.CitationKey].(*graph.Citation)
		s.Qualified = append(s.Qualified, EdgeSummary{
			Source:   e.Source.String(),
			Target:   e.Target.String(),
			Relation: rel,
			Citation: c,
		})
	}
	return s
}

func runExample(cmd *cobra.Command, args []string) {
	g, err := example.EGF()
	if err != nil {
		exitWithError(ExitError, "building example: %v", err)
	}

	if !exampleEnrich {
		printExample(summarizeGraph(g))
		return
	}

	if code := enrichExample(g); code != ExitSuccess {
		os.Exit(code)
	}
}

// enrichExample fills g's citations, prints the summary and returns the exit
// code. The store is closed before it returns.
func enrichExample(g *graph.Graph) int {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := newEnricher(cfg, db).EnrichPubMedCitations(ctx, g)
	if res == nil {
		db.Close()
		exitWithError(exitCodeFor(err), "enriching example: %v", err)
	}

	summary := summarizeGraph(g)
	summary.EdgesEnriched = res.EdgesUpdated
	summary.Failed = res.Failed
	if err != nil {
		summary.Error = err.Error()
	}
	printExample(summary)
	return exitCodeFor(err)
}

func printExample(s GraphSummary) {
	if humanOutput {
		printGraphSummary(s)
	} else {
		outputJSON(s)
	}
}

func printGraphSummary(s GraphSummary) {
	outputHuman("%s v%s: %d nodes, %d edges\n", s.Name, s.Version, s.Nodes, s.Edges)
	for _, e := range s.Qualified {
		outputHuman("\n%s %s %s\n", e.Source, e.Relation, e.Target)
		if e.Citation == nil {
			continue
		}
		outputHuman("  PubMed %s", e.Citation.Reference)
		if e.Citation.Name != "" {
			outputHuman(" | %s", e.Citation.Name)
		}
		if e.Citation.Date != "" {
			outputHuman(" | %s", e.Citation.Date)
		}
		outputHuman("\n")
		if len(e.Citation.Authors) > 0 {
			outputHuman("  %s\n", formatAuthorsShort(e.Citation.Authors, MaxShortAuthors))
		}
	}
	if s.EdgesEnriched > 0 {
		outputHuman("\nEnriched %d edges\n", s.EdgesEnriched)
	}
	if len(s.Failed) > 0 {
		outputHuman("Failed PubMed identifiers: %v\n", s.Failed)
	}
}
