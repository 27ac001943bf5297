// Package logger builds the console loggers used by the CLI and the
// enrichment pipeline.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures a console logger.
type Options struct {
	Debug  bool
	Output io.Writer // Defaults to os.Stderr
}

// New creates a logger writing timestamped key/value records.
func New(opts Options) *log.Logger {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
