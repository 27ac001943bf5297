package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/belgraph/internal/citation"
)

func init() {
	rootCmd.AddCommand(dateCmd)
}

var dateCmd = &cobra.Command{
	Use:   "date <string>...",
	Short: "Normalize PubMed publication dates",
	Long: `Normalize free-text PubMed publication dates to YYYY-MM-DD.

Accepted forms: "2012 Dec 19", "2012 Dec 12-15", "2005 Jan 29-Feb 4",
"2012 Oct-Dec", "2012 Dec", "2012 Spring" and "2012". Ranges resolve to
their first day. Exits with a data error if any input is not recognized.

Example:
  belc date "1998 May" "2005 Jan 29-Feb 4"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runDate,
}

// DateResult is one normalized date.
type DateResult struct {
	Input string `json:"input"`
	Date  string `json:"date,omitempty"`
	OK    bool   `json:"ok"`
}

func sanitizeDates(inputs []string) ([]DateResult, bool) {
	results := make([]DateResult, len(inputs))
	allOK := true
	for i, in := range inputs {
		date, ok := citation.SanitizeDate(in)
		results[i] = DateResult{Input: in, Date: date, OK: ok}
		allOK = allOK && ok
	}
	return results, allOK
}

func runDate(cmd *cobra.Command, args []string) {
	results, allOK := sanitizeDates(args)

	if humanOutput {
		for _, r := range results {
			if r.OK {
				outputHuman("%s\t%s\n", r.Input, r.Date)
			} else {
				outputHuman("%s\t(unrecognized)\n", r.Input)
			}
		}
	} else {
		outputJSON(results)
	}

	if !allOK {
		os.Exit(ExitDataError)
	}
}
