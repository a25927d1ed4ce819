// Package config provides configuration management for bbp.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// Config holds the bbp configuration.
type Config struct {
	SiteURL      string `yaml:"site_url,omitempty"`
	StaticURL    string `yaml:"static_url,omitempty"`
	InlinesFile  string `yaml:"inlines_file,omitempty"`
	InlinesURL   string `yaml:"inlines_url,omitempty"`
	APIToken     string `yaml:"api_token,omitempty"`
	MaxDepth     int    `yaml:"max_depth,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"`
}

// Validate checks that all set fields are valid. Every field is optional.
func (c *Config) Validate() error {
	urls := []struct {
		name  string
		value string
	}{
		{"site_url", c.SiteURL},
		{"static_url", c.StaticURL},
		{"inlines_url", c.InlinesURL},
	}
	for _, u := range urls {
		if u.value == "" {
			continue
		}
		if !strings.HasPrefix(u.value, "https://") && !strings.HasPrefix(u.value, "http://") {
			return fmt.Errorf("%s must use http or https", u.name)
		}
	}

	if c.MaxDepth < 0 {
		return errors.New("max_depth must be positive")
	}
	if c.APIToken != "" && c.InlinesURL == "" {
		return errors.New("api_token requires inlines_url")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("output_format %q must be table, json or plain", c.OutputFormat)
	}

	return nil
}

// NormalizeURLs strips trailing slashes so paths can be appended directly.
func (c *Config) NormalizeURLs() {
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
	c.StaticURL = strings.TrimSuffix(c.StaticURL, "/")
	c.InlinesURL = strings.TrimSuffix(c.InlinesURL, "/")
}

// ApplyDefaults fills unset hosts and depth with the built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.SiteURL == "" {
		c.SiteURL = bbcode.DefaultSiteURL
	}
	if c.StaticURL == "" {
		c.StaticURL = bbcode.DefaultStaticURL
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = bbcode.DefaultMaxDepth
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: BBP_* → FLIST_* → existing config value
func (c *Config) LoadFromEnv() {
	if url := getEnvWithFallback("BBP_SITE_URL", "FLIST_SITE_URL"); url != "" {
		c.SiteURL = url
	}
	if url := getEnvWithFallback("BBP_STATIC_URL", "FLIST_STATIC_URL"); url != "" {
		c.StaticURL = url
	}
	if file := os.Getenv("BBP_INLINES_FILE"); file != "" {
		c.InlinesFile = file
	}
	if url := os.Getenv("BBP_INLINES_URL"); url != "" {
		c.InlinesURL = url
	}
	if token := os.Getenv("BBP_API_TOKEN"); token != "" {
		c.APIToken = token
	}
	// Unparseable or non-positive depths are ignored.
	if depth, err := strconv.Atoi(os.Getenv("BBP_MAX_DEPTH")); err == nil && depth > 0 {
		c.MaxDepth = depth
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bbp", "config.yml")
	}

	// Fall back to ~/.config/bbp/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bbp", "config.yml")
	}

	return filepath.Join(home, ".config", "bbp", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
