package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "valid config",
			config: Config{
				SiteURL:    "https://www.f-list.net",
				StaticURL:  "http://static.localhost",
				InlinesURL: "https://inlines.example.com",
				APIToken:   "token123",
				MaxDepth:   50,
			},
			wantErr: false,
		},
		{
			name:    "invalid site URL scheme",
			config:  Config{SiteURL: "ftp://www.f-list.net"},
			wantErr: true,
			errMsg:  "site_url must use http or https",
		},
		{
			name:    "invalid static URL scheme",
			config:  Config{StaticURL: "static.f-list.net"},
			wantErr: true,
			errMsg:  "static_url must use http or https",
		},
		{
			name:    "valid output format",
			config:  Config{OutputFormat: "json"},
			wantErr: false,
		},
		{
			name:    "invalid output format",
			config:  Config{OutputFormat: "xml"},
			wantErr: true,
			errMsg:  `output_format "xml" must be table, json or plain`,
		},
		{
			name:    "invalid inlines URL scheme",
			config:  Config{InlinesURL: "file:///tmp/inlines.json"},
			wantErr: true,
			errMsg:  "inlines_url must use http or https",
		},
		{
			name:    "negative depth",
			config:  Config{MaxDepth: -1},
			wantErr: true,
			errMsg:  "max_depth must be positive",
		},
		{
			name:    "token without inlines URL",
			config:  Config{APIToken: "token123"},
			wantErr: true,
			errMsg:  "api_token requires inlines_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_NormalizeURLs(t *testing.T) {
	cfg := Config{
		SiteURL:    "https://www.f-list.net/",
		StaticURL:  "https://static.f-list.net",
		InlinesURL: "https://inlines.example.com/v1/",
	}
	cfg.NormalizeURLs()

	assert.Equal(t, "https://www.f-list.net", cfg.SiteURL)
	assert.Equal(t, "https://static.f-list.net", cfg.StaticURL)
	assert.Equal(t, "https://inlines.example.com/v1", cfg.InlinesURL)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{StaticURL: "http://localhost:8080"}
	cfg.ApplyDefaults()

	assert.Equal(t, "https://www.f-list.net", cfg.SiteURL)
	assert.Equal(t, "http://localhost:8080", cfg.StaticURL)
	assert.Equal(t, 100, cfg.MaxDepth)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"BBP_SITE_URL", "BBP_STATIC_URL", "BBP_INLINES_FILE", "BBP_INLINES_URL",
		"BBP_API_TOKEN", "BBP_MAX_DEPTH", "FLIST_SITE_URL", "FLIST_STATIC_URL",
	} {
		t.Setenv(name, "")
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BBP_SITE_URL", "https://site.test")
		t.Setenv("BBP_STATIC_URL", "https://static.test")
		t.Setenv("BBP_INLINES_FILE", "/tmp/inlines.yml")
		t.Setenv("BBP_INLINES_URL", "https://inlines.test")
		t.Setenv("BBP_API_TOKEN", "env-token")
		t.Setenv("BBP_MAX_DEPTH", "20")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "https://site.test", cfg.SiteURL)
		assert.Equal(t, "https://static.test", cfg.StaticURL)
		assert.Equal(t, "/tmp/inlines.yml", cfg.InlinesFile)
		assert.Equal(t, "https://inlines.test", cfg.InlinesURL)
		assert.Equal(t, "env-token", cfg.APIToken)
		assert.Equal(t, 20, cfg.MaxDepth)
	})

	t.Run("env vars override existing values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BBP_SITE_URL", "https://override.test")

		cfg := &Config{
			SiteURL:   "https://original.test",
			StaticURL: "https://static.original.test",
			MaxDepth:  7,
		}
		cfg.LoadFromEnv()

		// Site URL should be overridden
		assert.Equal(t, "https://override.test", cfg.SiteURL)
		// Empty env vars don't override
		assert.Equal(t, "https://static.original.test", cfg.StaticURL)
		assert.Equal(t, 7, cfg.MaxDepth)
	})

	t.Run("invalid depth ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BBP_MAX_DEPTH", "deep")

		cfg := &Config{MaxDepth: 30}
		cfg.LoadFromEnv()
		assert.Equal(t, 30, cfg.MaxDepth)

		t.Setenv("BBP_MAX_DEPTH", "-5")
		cfg.LoadFromEnv()
		assert.Equal(t, 30, cfg.MaxDepth)
	})

	t.Run("FLIST_* used when BBP_* not set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FLIST_SITE_URL", "https://shared.test")
		t.Setenv("FLIST_STATIC_URL", "https://static.shared.test")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "https://shared.test", cfg.SiteURL)
		assert.Equal(t, "https://static.shared.test", cfg.StaticURL)
	})

	t.Run("BBP_* takes precedence over FLIST_*", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BBP_SITE_URL", "https://bbp.test")
		t.Setenv("FLIST_SITE_URL", "https://shared.test")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "https://bbp.test", cfg.SiteURL)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("XDG config home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, filepath.Join("/tmp/xdg", "bbp", "config.yml"), DefaultConfigPath())
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "bbp", "config.yml"), DefaultConfigPath())
	})
}

func TestConfig_Save_and_Load(t *testing.T) {
	// Create a temp directory for the test
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yml")

	original := Config{
		SiteURL:      "https://www.f-list.net",
		StaticURL:    "https://static.f-list.net",
		InlinesFile:  "/tmp/inlines.yml",
		InlinesURL:   "https://inlines.example.com",
		APIToken:     "test-token",
		MaxDepth:     42,
		OutputFormat: "json",
	}

	// Save
	err := original.Save(configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Load
	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: [1, 2"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BBP_MAX_DEPTH", "12")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxDepth)
}

func TestGetEnvWithFallback(t *testing.T) {
	t.Run("returns primary when set", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "primary-value")
		t.Setenv("TEST_FALLBACK", "fallback-value")
		assert.Equal(t, "primary-value", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})

	t.Run("returns fallback when primary empty", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "fallback-value")
		assert.Equal(t, "fallback-value", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})

	t.Run("returns empty when both empty", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "")
		assert.Equal(t, "", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})
}
