package main

import (
	"github.com/spf13/cobra"
)

func init() {
	authorsCmd.AddCommand(authorsGetCmd)
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Inspect stored authors",
}

var authorsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get an author by exact name",
	Long: `Get a stored author by exact name.

Names are compared byte for byte, so "Gomez C" and "Gómez C" are
different authors.

Example:
  belc authors get "Lewell XQ"`,
	Args: cobra.ExactArgs(1),
	Run:  runAuthorsGet,
}

func runAuthorsGet(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	name := args[0]
	a, err := db.GetAuthorByName(name)
	if err != nil {
		exitWithError(ExitError, "getting author: %v", err)
	}
	if a == nil {
		exitWithError(ExitDataError, "author not found: %s", name)
	}

	if humanOutput {
		outputHuman("%d\t%s\n", a.ID, a.Name)
	} else {
		outputJSON(a)
	}
}
