package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/belgraph/internal/citation"
)

func init() {
	citationsFetchCmd.Flags().IntVar(&groupSizeFlag, "group-size", 0, "PubMed identifiers per request (default from config, 200)")
	citationsFetchCmd.Flags().IntVar(&parallelismFlag, "parallel", 0, "Concurrent PubMed requests (default from config, 1)")

	citationsCmd.AddCommand(citationsFetchCmd)
	citationsCmd.AddCommand(citationsGetCmd)
	citationsCmd.AddCommand(citationsCountCmd)
	citationsCmd.AddCommand(citationsExportCmd)
	citationsCmd.AddCommand(citationsImportCmd)
	rootCmd.AddCommand(citationsCmd)
}

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Fetch and inspect stored PubMed citations",
}

var citationsFetchCmd = &cobra.Command{
	Use:   "fetch <pmid>...",
	Short: "Resolve PubMed identifiers into the citation store",
	Long: `Resolve PubMed identifiers into the citation store.

Identifiers already resolved in the store are served from it; the rest are
fetched from NCBI E-utilities in groups. Identifiers PubMed cannot resolve
are listed under "failed".

Example:
  belc citations fetch 9611787 12855613 --group-size 100`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCitationsFetch,
}

var citationsGetCmd = &cobra.Command{
	Use:   "get <pmid>",
	Short: "Get a stored PubMed citation",
	Args:  cobra.ExactArgs(1),
	Run:   runCitationsGet,
}

var citationsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stored citations",
	Args:  cobra.NoArgs,
	Run:   runCitationsCount,
}

var citationsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every stored citation to a JSONL file",
	Args:  cobra.ExactArgs(1),
	Run:   runCitationsExport,
}

var citationsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load citations from a JSONL file written by export",
	Args:  cobra.ExactArgs(1),
	Run:   runCitationsImport,
}

// FetchResponse is the response for citations fetch.
type FetchResponse struct {
	*citation.Result
	Error string `json:"error,omitempty"`
}

func runCitationsFetch(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := newEnricher(cfg, db).GetCitationsByPMIDs(ctx, args)
	if res == nil {
		db.Close()
		exitWithError(exitCodeFor(err), "fetching citations: %v", err)
	}

	if humanOutput {
		printFetchResult(res)
		if err != nil {
			outputHuman("\nerror: %v\n", err)
		}
	} else {
		resp := FetchResponse{Result: res}
		if err != nil {
			resp.Error = err.Error()
		}
		outputJSON(resp)
	}

	if err != nil {
		// os.Exit skips deferred calls.
		db.Close()
		os.Exit(exitCodeFor(err))
	}
}

func printFetchResult(res *citation.Result) {
	outputHuman("Resolved %d citations (%d from store, %d fetched)\n",
		len(res.Citations), res.Cached, res.Fetched)

	pmids := make([]string, 0, len(res.Citations))
	for pmid := range res.Citations {
		pmids = append(pmids, pmid)
	}
	slices.Sort(pmids)
	for _, pmid := range pmids {
		outputHuman("\n")
		printCitationDetail(res.Citations[pmid])
	}

	if len(res.Failed) > 0 {
		outputHuman("\nFailed: %s\n", strings.Join(res.Failed, ", "))
	}
}

func runCitationsGet(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	pmid := args[0]
	c, err := db.GetCitationByPMID(pmid)
	if err != nil {
		exitWithError(ExitError, "getting citation: %v", err)
	}
	if c == nil {
		exitWithError(ExitDataError, "citation not found: %s", pmid)
	}

	if humanOutput {
		printCitationDetail(c)
	} else {
		outputJSON(c)
	}
}

func runCitationsCount(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	n, err := db.CountCitations()
	if err != nil {
		exitWithError(ExitError, "counting citations: %v", err)
	}

	if humanOutput {
		outputHuman("%d citations\n", n)
	} else {
		outputJSON(CountResponse{Count: n})
	}
}

func runCitationsExport(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	path := args[0]
	n, err := db.ExportCitationsJSONL(path)
	if err != nil {
		exitWithError(ExitError, "exporting citations: %v", err)
	}

	if humanOutput {
		outputHuman("Exported %d citations to %s\n", n, path)
	} else {
		outputJSON(TransferResponse{Status: "exported", Path: path, Count: n})
	}
}

func runCitationsImport(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	path := args[0]
	n, err := db.ImportCitationsJSONL(path)
	if err != nil {
		exitWithError(ExitDataError, "importing citations: %v", err)
	}

	if humanOutput {
		outputHuman("Imported %d citations from %s\n", n, path)
	} else {
		outputJSON(TransferResponse{Status: "imported", Path: path, Count: n})
	}
}
