package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points config and data lookups at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvEUtilsURL, "")
	return tmpDir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/belc/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "belc", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.GroupSize != DefaultGroupSize || cfg.Parallelism != DefaultParallelism {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if want := filepath.Join(dir, "data", DataDir, DBFile); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.NCBIAPIKey != "" {
		t.Errorf("NCBIAPIKey = %q, want empty", cfg.NCBIAPIKey)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
db_path: ~/belc/cites.db
ncbi_api_key: file-key
group_size: 50
parallelism: 4
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "belc/cites.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.NCBIAPIKey != "file-key" {
		t.Errorf("NCBIAPIKey = %q, want file-key", cfg.NCBIAPIKey)
	}
	if cfg.GroupSize != 50 || cfg.Parallelism != 4 {
		t.Errorf("GroupSize/Parallelism = %d/%d, want 50/4", cfg.GroupSize, cfg.Parallelism)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "ncbi_api_key: file-key\ndb_path: /from/file.db\n")
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvDBPath, ":memory:")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.NCBIAPIKey != "env-key" {
		t.Errorf("NCBIAPIKey = %q, want env-key", cfg.NCBIAPIKey)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
	}
}

func TestLoadGlobalConfig_EUtilsURL(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "eutils_url: http://file.example/esummary.fcgi\n")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.EUtilsURL != "http://file.example/esummary.fcgi" {
		t.Errorf("EUtilsURL = %q, want the file value", cfg.EUtilsURL)
	}

	ResetGlobalConfigCache()
	t.Setenv(EnvEUtilsURL, "http://127.0.0.1:1/esummary.fcgi")
	if cfg, err = LoadGlobalConfig(); err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.EUtilsURL != "http://127.0.0.1:1/esummary.fcgi" {
		t.Errorf("EUtilsURL = %q, want the env value", cfg.EUtilsURL)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "group_size: [not an int\n")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() error = nil, want parse error")
	}
}

func TestGlobalConfigCache(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "group_size: 10\n")

	first, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, "group_size: 20\n")

	second, _ := LoadGlobalConfig()
	if second != first || second.GroupSize != 10 {
		t.Error("second load did not come from the cache")
	}

	ResetGlobalConfigCache()
	third, _ := LoadGlobalConfig()
	if third.GroupSize != 20 {
		t.Errorf("GroupSize after reset = %d, want 20", third.GroupSize)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/x/y.db", want: filepath.Join(home, "x/y.db")},
		{in: "~user/x", want: "~user/x"},
		{in: "/abs/path", want: "/abs/path"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GlobalConfig
		wantErr bool
	}{
		{name: "ok", cfg: GlobalConfig{GroupSize: 1, Parallelism: 1}},
		{name: "zero group", cfg: GlobalConfig{GroupSize: 0, Parallelism: 1}, wantErr: true},
		{name: "negative parallelism", cfg: GlobalConfig{GroupSize: 1, Parallelism: -2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	msg := HelpfulConfigMessage()
	for _, want := range []string{"/custom/config/belc/config.yml", EnvAPIKey, EnvDBPath, "group_size"} {
		if !strings.Contains(msg, want) {
			t.Errorf("HelpfulConfigMessage() missing %q", want)
		}
	}
}
