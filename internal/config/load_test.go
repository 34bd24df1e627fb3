package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		// Restore original environment
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that Load fills every group with its default
// values when no file or environment variables are present.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"SCRY_SYNC_ANKI_URL":  "",
		"SCRY_SYNC_LOG_LEVEL": "",
	})
	defer cleanup()

	cfg, err := Load("")

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, "http://localhost:8765", cfg.Anki.URL, "Default AnkiConnect URL should be the local endpoint")
	assert.Equal(t, 6, cfg.Anki.Version)
	assert.Equal(t, 30, cfg.Anki.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Anki.MaxRetries)
	assert.Equal(t, "Front", cfg.Anki.FrontField)
	assert.Equal(t, "Back", cfg.Anki.BackField)
	assert.Equal(t, 100, cfg.Anki.BatchSize)
	assert.Equal(t, []string{".md"}, cfg.Vault.Extensions)
	assert.Equal(t, "preview.md", cfg.Vault.PreviewPath)
	assert.Equal(t, 2, cfg.Sync.ContextLines)
	assert.False(t, cfg.Sync.Preview)
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Empty(t, cfg.Journal.URL, "Journal should be disabled by default")
}

// TestLoadFromEnv verifies that the Load function correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"SCRY_SYNC_ANKI_URL":           "http://anki.internal:9999",
		"SCRY_SYNC_ANKI_API_KEY":       "secret",
		"SCRY_SYNC_ANKI_MAX_RETRIES":   "5",
		"SCRY_SYNC_VAULT_DIR":          "/notes",
		"SCRY_SYNC_VAULT_EXTENSIONS":   ".md,.txt",
		"SCRY_SYNC_SYNC_DECK":          "Programming",
		"SCRY_SYNC_SYNC_PREVIEW":       "true",
		"SCRY_SYNC_SYNC_CONTEXT_LINES": "4",
		"SCRY_SYNC_LOG_LEVEL":          "debug",
		"SCRY_SYNC_JOURNAL_URL":        "sqlite:///tmp/journal.db",
	})
	defer cleanup()

	cfg, err := Load("")

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, "http://anki.internal:9999", cfg.Anki.URL)
	assert.Equal(t, "secret", cfg.Anki.APIKey)
	assert.Equal(t, 5, cfg.Anki.MaxRetries)
	assert.Equal(t, "/notes", cfg.Vault.Dir)
	assert.Equal(t, []string{".md", ".txt"}, cfg.Vault.Extensions)
	assert.Equal(t, "Programming", cfg.Sync.Deck)
	assert.True(t, cfg.Sync.Preview)
	assert.Equal(t, 4, cfg.Sync.ContextLines)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite:///tmp/journal.db", cfg.Journal.URL)
}

// TestLoadFromFile verifies that a config file is read and that environment
// variables still take precedence over it.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scry-sync.yaml")
	content := `
anki:
  url: http://file-host:8765
  batch_size: 25
vault:
  dir: /from/file
sync:
  deck: FileDeck
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cleanup := setupEnv(t, map[string]string{
		"SCRY_SYNC_SYNC_DECK": "EnvDeck",
	})
	defer cleanup()

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "http://file-host:8765", cfg.Anki.URL)
	assert.Equal(t, 25, cfg.Anki.BatchSize)
	assert.Equal(t, "/from/file", cfg.Vault.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "EnvDeck", cfg.Sync.Deck, "Environment should override the config file")
	assert.Equal(t, "Front", cfg.Anki.FrontField, "Unset keys keep their defaults")
}

// TestLoadMissingExplicitFile verifies that an explicitly named file must exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
	assert.Nil(t, cfg)
}

// TestLoadValidationErrors verifies that the Load function correctly validates the configuration.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name           string
		envVars        map[string]string
		errorSubstring string
	}{
		{
			name:           "Invalid AnkiConnect URL",
			envVars:        map[string]string{"SCRY_SYNC_ANKI_URL": "not a url"},
			errorSubstring: "validation failed",
		},
		{
			name:           "Invalid log level",
			envVars:        map[string]string{"SCRY_SYNC_LOG_LEVEL": "invalid-level"},
			errorSubstring: "validation failed",
		},
		{
			name:           "Too many retries",
			envVars:        map[string]string{"SCRY_SYNC_ANKI_MAX_RETRIES": "50"},
			errorSubstring: "validation failed",
		},
		{
			name:           "Zero batch size",
			envVars:        map[string]string{"SCRY_SYNC_ANKI_BATCH_SIZE": "0"},
			errorSubstring: "validation failed",
		},
		{
			name:           "Negative context lines",
			envVars:        map[string]string{"SCRY_SYNC_SYNC_CONTEXT_LINES": "-1"},
			errorSubstring: "validation failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanup := setupEnv(t, tc.envVars)
			defer cleanup()

			cfg, err := Load("")

			assert.Error(t, err, "Load() should return an error with invalid configuration")
			if err != nil {
				assert.Contains(t, err.Error(), tc.errorSubstring, "Error message should contain expected substring")
			}
			assert.Nil(t, cfg, "Config should be nil when an error occurs")
		})
	}
}

// TestValidateAfterOverride verifies that values changed after loading are re-checked.
func TestValidateAfterOverride(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Sync.ContextLines = 500
	err = cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
