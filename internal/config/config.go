package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DataDir is the directory name under XDG_DATA_HOME.
	DataDir = "belc"
	// DBFile is the citation store file name.
	DBFile = "citations.db"
)

// DataPath returns the belc data directory.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/belc.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DataDir
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, DataDir)
}

// DefaultDBPath returns the default path of the citation store.
func DefaultDBPath() string {
	return filepath.Join(DataPath(), DBFile)
}

// EnsureDBDir creates the parent directory of a database path.
// In-memory paths are left alone.
func EnsureDBDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}
