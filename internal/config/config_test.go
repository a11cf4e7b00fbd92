package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
base-url: https://example.com/
request-timeout-seconds: 30
auth-dir: ` + filepath.Join(dir, "auth") + `
watch-token: true
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v, want 30s", cfg.RequestTimeout())
	}
	if !cfg.WatchToken || !cfg.Debug {
		t.Errorf("flags not parsed: %+v", cfg)
	}
	if cfg.DurableTokenPath() != filepath.Join(dir, "auth", "auth_token") {
		t.Errorf("DurableTokenPath() = %q", cfg.DurableTokenPath())
	}
	if cfg.LogDir != filepath.Join(dir, "auth", "logs") {
		t.Errorf("LogDir default = %q", cfg.LogDir)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want missing file tolerated", err)
	}
	if cfg.RequestTimeout() != DefaultRequestTimeout {
		t.Errorf("RequestTimeout() = %v, want default", cfg.RequestTimeout())
	}
	if cfg.AuthDir == "" {
		t.Error("AuthDir default missing")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("base-url: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() accepted malformed YAML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SITE_API_BASE_URL", "https://env.example.com")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("base-url: https://file.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q, want env value to win", cfg.BaseURL)
	}
}
