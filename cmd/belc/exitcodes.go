package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid settings)
	ExitDataError   = 3 // Data error (malformed input, unparseable date, not found)
	ExitLookupError = 4 // PubMed lookup failed for at least one batch
)
