package main

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matsen/belgraph/internal/citation"
	"github.com/matsen/belgraph/internal/config"
	"github.com/matsen/belgraph/internal/logger"
	"github.com/matsen/belgraph/internal/pubmed"
	"github.com/matsen/belgraph/internal/storage"
)

// Flag values shared by commands that run lookups. Zero means "use config".
var (
	groupSizeFlag   int
	parallelismFlag int
)

// mustLoadConfig loads the global config with flag overrides, or exits.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}
	if groupSizeFlag != 0 {
		cfg.GroupSize = groupSizeFlag
	}
	if parallelismFlag != 0 {
		cfg.Parallelism = parallelismFlag
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustOpenStore opens the citation database named by cfg, or exits.
func mustOpenStore(cfg *config.GlobalConfig) *storage.DB {
	if err := config.EnsureDBDir(cfg.DBPath); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

func newLogger() *log.Logger {
	return logger.New(logger.Options{Debug: debugOutput})
}

// newEnricher wires the store to a PubMed client configured from cfg.
func newEnricher(cfg *config.GlobalConfig, db *storage.DB) *citation.Enricher {
	var opts []pubmed.ClientOption
	if cfg.NCBIAPIKey != "" {
		opts = append(opts, pubmed.WithAPIKey(cfg.NCBIAPIKey))
	}
	if cfg.EUtilsURL != "" {
		opts = append(opts, pubmed.WithBaseURL(cfg.EUtilsURL))
	}
	return citation.NewEnricher(db, pubmed.NewClient(opts...),
		citation.WithGroupSize(cfg.GroupSize),
		citation.WithParallelism(cfg.Parallelism),
		citation.WithLogger(newLogger()),
	)
}

// exitCodeFor maps a pipeline error to an exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, citation.ErrLookupFailed), pubmed.IsRateLimited(err):
		return ExitLookupError
	default:
		return ExitError
	}
}
