package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Anki    AnkiConfig    `mapstructure:"anki" validate:"required"`
	Vault   VaultConfig   `mapstructure:"vault" validate:"required"`
	Sync    SyncConfig    `mapstructure:"sync" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Journal JournalConfig `mapstructure:"journal"`
}

// AnkiConfig contains the settings for reaching the AnkiConnect endpoint.
type AnkiConfig struct {
	URL     string `mapstructure:"url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Version int    `mapstructure:"version" validate:"required,gt=0"`

	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelayMS   int `mapstructure:"retry_delay_ms" validate:"gte=0"`

	// FrontField and BackField name the note fields holding question and answer.
	FrontField string `mapstructure:"front_field" validate:"required"`
	BackField  string `mapstructure:"back_field" validate:"required"`

	// BatchSize caps the number of note IDs sent in one notesInfo request.
	BatchSize int `mapstructure:"batch_size" validate:"required,gt=0"`
}

// VaultConfig describes the local document tree.
type VaultConfig struct {
	Dir         string   `mapstructure:"dir"`
	Extensions  []string `mapstructure:"extensions" validate:"required,min=1,dive,required"`
	PreviewPath string   `mapstructure:"preview_path" validate:"required"`
}

// SyncConfig contains the defaults for a sync run.
type SyncConfig struct {
	Deck         string `mapstructure:"deck"`
	Preview      bool   `mapstructure:"preview"`
	Interactive  bool   `mapstructure:"interactive"`
	ContextLines int    `mapstructure:"context_lines" validate:"gte=0,lte=100"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// JournalConfig points at the optional sync journal database.
// An empty URL disables the journal.
type JournalConfig struct {
	URL string `mapstructure:"url"`
}
