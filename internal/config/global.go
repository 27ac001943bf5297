// Package config handles global belc configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/belc/config.yml.
type GlobalConfig struct {
	DBPath      string `yaml:"db_path,omitempty"`
	NCBIAPIKey  string `yaml:"ncbi_api_key,omitempty"`
	GroupSize   int    `yaml:"group_size,omitempty"`
	Parallelism int    `yaml:"parallelism,omitempty"`
	EUtilsURL   string `yaml:"eutils_url,omitempty"` // esummary endpoint; empty means NCBI
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "belc"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// Environment overrides, applied after the file is read.
	EnvAPIKey    = "NCBI_API_KEY"
	EnvDBPath    = "BELC_DB"
	EnvEUtilsURL = "BELC_EUTILS_URL"
)

// Defaults applied to unset fields.
const (
	DefaultGroupSize   = 200
	DefaultParallelism = 1
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/belc/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file, applies environment
// overrides and fills defaults. A missing file is not an error.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	var cfg GlobalConfig
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

func (c *GlobalConfig) applyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.NCBIAPIKey = key
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.DBPath = path
	}
	if url := os.Getenv(EnvEUtilsURL); url != "" {
		c.EUtilsURL = url
	}
}

func (c *GlobalConfig) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	c.DBPath = ExpandTilde(c.DBPath)
	if c.GroupSize <= 0 {
		c.GroupSize = DefaultGroupSize
	}
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultParallelism
	}
}

// Validate checks that numeric settings are usable.
func (c *GlobalConfig) Validate() error {
	if c.GroupSize <= 0 {
		return fmt.Errorf("group_size must be positive, got %d", c.GroupSize)
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage describes where the config lives and what it holds.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Tip: Create %s to configure belc:
  mkdir -p %s
  cat > %s <<EOF
  db_path: ~/.local/share/belc/citations.db
  ncbi_api_key: your-key
  group_size: 200
  parallelism: 1
  EOF

%s and %s override the file.`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		EnvAPIKey, EnvDBPath)
}
