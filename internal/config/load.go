package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. SCRY_SYNC_ANKI_URL.
const EnvPrefix = "SCRY_SYNC"

const configName = "scry-sync"

// Load configuration from defaults, an optional YAML file and environment
// variables. Environment variables take precedence over values from the file.
//
// When configFile is empty, scry-sync.yaml is searched for in the working
// directory and in $HOME/.config/scry-sync; a missing file is not an error.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags. Call it again after overriding loaded
// values, e.g. from command-line flags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so that environment variables are picked
// up by Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anki.url", "http://localhost:8765")
	v.SetDefault("anki.api_key", "")
	v.SetDefault("anki.version", 6)
	v.SetDefault("anki.timeout_seconds", 30)
	v.SetDefault("anki.max_retries", 3)
	v.SetDefault("anki.retry_delay_ms", 500)
	v.SetDefault("anki.front_field", "Front")
	v.SetDefault("anki.back_field", "Back")
	v.SetDefault("anki.batch_size", 100)

	v.SetDefault("vault.dir", "")
	v.SetDefault("vault.extensions", []string{".md"})
	v.SetDefault("vault.preview_path", "preview.md")

	v.SetDefault("sync.deck", "")
	v.SetDefault("sync.preview", false)
	v.SetDefault("sync.interactive", false)
	v.SetDefault("sync.context_lines", 2)

	v.SetDefault("log.level", "info")

	v.SetDefault("journal.url", "")
}
