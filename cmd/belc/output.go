package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/belgraph/internal/reference"
)

// Constants for output formatting.
const (
	DetailTitleMaxLen = 70 // Used in citation detail view
	MaxShortAuthors   = 3  // Authors shown before "et al."
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CountResponse is the response for count commands.
type CountResponse struct {
	Count int `json:"count"`
}

// TransferResponse is the response for export and import commands.
type TransferResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

// printCitationDetail prints one stored citation in human-readable format.
func printCitationDetail(c *reference.Citation) {
	fmt.Printf("%s:%s\n", c.DB, c.DBID)
	if c.Title != "" {
		fmt.Printf("  %s\n", truncateString(c.Title, DetailTitleMaxLen))
	}
	if c.Name != "" {
		fmt.Printf("  Journal: %s\n", c.Name)
	}
	if c.Date != "" {
		fmt.Printf("  Date:    %s\n", c.Date)
	}
	if vip := formatVolumeIssuePages(c); vip != "" {
		fmt.Printf("  Issue:   %s\n", vip)
	}
	if len(c.Authors) > 0 {
		fmt.Printf("  Authors: %s\n", formatAuthorsShort(c.AuthorNames(), MaxShortAuthors))
	}
	if !c.IsResolved() {
		fmt.Println("  (unresolved)")
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthorsShort joins author names with "et al." for more than maxCount.
func formatAuthorsShort(names []string, maxCount int) string {
	if len(names) <= maxCount {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:maxCount], ", ") + ", et al."
}

// formatVolumeIssuePages formats as "38(3):511-22", omitting missing parts.
func formatVolumeIssuePages(c *reference.Citation) string {
	var b strings.Builder
	b.WriteString(c.Volume)
	if c.Issue != "" {
		fmt.Fprintf(&b, "(%s)", c.Issue)
	}
	if c.Pages != "" {
		if b.Len() > 0 {
			b.WriteString(":")
		}
		b.WriteString(c.Pages)
	}
	return b.String()
}
