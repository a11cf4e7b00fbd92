// Package config provides configuration management for the site API client.
// It handles loading and parsing YAML configuration files, and provides structured
// access to application settings including the API base URL, request timeout,
// token storage locations, proxy configuration, and logging behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRequestTimeout bounds a single HTTP attempt when the config does not override it.
const DefaultRequestTimeout = 10 * time.Second

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// BaseURL is the root of the site API. Empty means same-origin style relative
	// requests, which only make sense in tests; cmd/sitectl requires it.
	BaseURL string `yaml:"base-url" json:"base-url"`

	// RequestTimeoutSeconds bounds each HTTP attempt. <= 0 uses the 10s default.
	RequestTimeoutSeconds int `yaml:"request-timeout-seconds,omitempty" json:"request-timeout-seconds,omitempty"`

	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// AuthDir is the directory holding the durable token file and the cookie jar.
	AuthDir string `yaml:"auth-dir" json:"auth-dir"`

	// SessionDir is the directory holding the session-scoped token file.
	// Empty selects a per-boot directory under the OS temp dir.
	SessionDir string `yaml:"session-dir,omitempty" json:"session-dir,omitempty"`

	// WatchToken enables hot-reloading the in-memory token when another process
	// rewrites the durable token file.
	WatchToken bool `yaml:"watch-token" json:"watch-token"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug" json:"debug"`

	// LoggingToFile routes logs to rotated files under LogDir instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogDir is the directory used when LoggingToFile is enabled.
	LogDir string `yaml:"log-dir,omitempty" json:"log-dir,omitempty"`
}

// RequestTimeout returns the configured per-attempt timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c == nil || c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DurableTokenPath returns the path of the durable-tier token file.
func (c *Config) DurableTokenPath() string {
	return filepath.Join(c.AuthDir, "auth_token")
}

// SessionTokenPath returns the path of the session-scoped token file.
func (c *Config) SessionTokenPath() string {
	dir := c.SessionDir
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "siteclient-session")
	}
	return filepath.Join(dir, "auth_token")
}

// CookieJarPath returns the path of the persisted cookie jar file.
func (c *Config) CookieJarPath() string {
	return filepath.Join(c.AuthDir, "cookies.json")
}

// LoadConfig reads the YAML file at configFile, applies environment overrides
// and defaults, and returns the resulting configuration.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s failed: %w", configFile, errUnmarshal)
		}
	case os.IsNotExist(err):
		// Missing file is fine; environment and defaults still apply.
	default:
		return nil, fmt.Errorf("config: read %s failed: %w", configFile, err)
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides layers process environment values over file values.
// SITE_API_BASE_URL mirrors the variable the web frontend reads.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SITE_API_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SITE_API_PROXY_URL")); v != "" {
		cfg.ProxyURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SITE_API_AUTH_DIR")); v != "" {
		cfg.AuthDir = v
	}
}

func applyDefaults(cfg *Config) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.AuthDir) == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.AuthDir = filepath.Join(home, ".siteclient")
		} else {
			cfg.AuthDir = ".siteclient"
		}
	}
	if expanded, err := expandTilde(cfg.AuthDir); err == nil {
		cfg.AuthDir = expanded
	}
	if strings.TrimSpace(cfg.LogDir) == "" {
		cfg.LogDir = filepath.Join(cfg.AuthDir, "logs")
	}
}

func expandTilde(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
