package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProviderConfig holds settings for one AI provider.
type ProviderConfig struct {
	// Kind selects the client implementation ("anthropic" or "openai").
	Kind string `mapstructure:"kind" yaml:"kind"`

	// Model is the provider-specific model identifier.
	Model string `mapstructure:"model" yaml:"model"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible
	// gateways, test servers). Empty means the provider default.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// GenerationConfig controls the report-generation retry policy.
// These are defaults, not a contract; see the config file to tune.
type GenerationConfig struct {
	// PrimaryAttempts is how many times the primary provider is tried
	// before falling back.
	PrimaryAttempts int `mapstructure:"primary_attempts" yaml:"primary_attempts"`

	// TimeoutSec bounds a single generation attempt.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MinReportLength is the validation floor for generated text.
	MinReportLength int `mapstructure:"min_report_length" yaml:"min_report_length"`
}

// ClockifyConfig holds settings for the time-tracking sync adapter.
type ClockifyConfig struct {
	WorkspaceID string `mapstructure:"workspace_id" yaml:"workspace_id"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
}

// CalendarConfig holds IMAP settings for meeting-invite ingestion.
type CalendarConfig struct {
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string `mapstructure:"imap_port" yaml:"imap_port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	SinceDays int   `mapstructure:"since_days" yaml:"since_days"`
}

// DeliveryConfig holds settings for report delivery adapters.
type DeliveryConfig struct {
	SMTPHost     string   `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     string   `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUsername string   `mapstructure:"smtp_username" yaml:"smtp_username"`
	SMTPTLS      bool     `mapstructure:"smtp_tls" yaml:"smtp_tls"`
	EmailFrom    string   `mapstructure:"email_from" yaml:"email_from"`
	EmailTo      []string `mapstructure:"email_to" yaml:"email_to"`
	SlackWebhook string   `mapstructure:"slack_webhook" yaml:"slack_webhook"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DBPath     string           `mapstructure:"db_path" yaml:"db_path"`
	Primary    ProviderConfig   `mapstructure:"primary_provider" yaml:"primary_provider"`
	Secondary  ProviderConfig   `mapstructure:"secondary_provider" yaml:"secondary_provider"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Clockify   ClockifyConfig   `mapstructure:"clockify" yaml:"clockify"`
	Calendar   CalendarConfig   `mapstructure:"calendar" yaml:"calendar"`
	Delivery   DeliveryConfig   `mapstructure:"delivery" yaml:"delivery"`
}

// DefaultConfigPath returns the default configuration file location,
// ~/.config/workmain/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "workmain", "config.yaml")
}

// DefaultDBPath returns the default database location,
// ~/.config/workmain/workmain.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "workmain.db")
	}
	return filepath.Join(home, ".config", "workmain", "workmain.db")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath: DefaultDBPath(),
		Primary: ProviderConfig{
			Kind:      "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Generation: GenerationConfig{
			PrimaryAttempts: 2,
			TimeoutSec:      120,
			MinReportLength: 80,
		},
		Clockify: ClockifyConfig{
			BaseURL: "https://api.clockify.me/api/v1",
		},
		Calendar: CalendarConfig{
			IMAPPort:  "993",
			TLS:       true,
			Mailbox:   "INBOX",
			SinceDays: 7,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. A missing file yields the default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("primary_provider.kind", "anthropic")
	v.SetDefault("primary_provider.model", "claude-sonnet-4-20250514")
	v.SetDefault("primary_provider.max_tokens", 4096)
	v.SetDefault("generation.primary_attempts", 2)
	v.SetDefault("generation.timeout_sec", 120)
	v.SetDefault("generation.min_report_length", 80)
	v.SetDefault("clockify.base_url", "https://api.clockify.me/api/v1")
	v.SetDefault("calendar.imap_port", "993")
	v.SetDefault("calendar.tls", true)
	v.SetDefault("calendar.mailbox", "INBOX")
	v.SetDefault("calendar.since_days", 7)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("primary_provider", cfg.Primary)
	v.Set("secondary_provider", cfg.Secondary)
	v.Set("generation", cfg.Generation)
	v.Set("clockify", cfg.Clockify)
	v.Set("calendar", cfg.Calendar)
	v.Set("delivery", cfg.Delivery)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
