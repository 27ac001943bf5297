// Package main provides the belc CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// debugOutput enables debug logging on stderr
var debugOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "belc",
	Short: "BEL citation toolkit",
	Long: `belc resolves and caches the PubMed citations behind BEL knowledge graphs.

Citations are stored in a local SQLite database so each PubMed identifier
is fetched from NCBI E-utilities at most once. All commands output JSON by
default for easy integration with other tools.

Environment Variables:
  NCBI_API_KEY  NCBI API key (raises the rate limit from 3 to 10 req/s)
  BELC_DB       Path of the citation database`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for NCBI_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&debugOutput, "debug", false, "Log debug messages to stderr")
	rootCmd.Version = Version
}
