// Package config loads cine-lens settings.
//
// Values are layered: built-in defaults, then an optional YAML file (CONFIG_PATH or
// cine-lens.yaml in the working directory), then environment variables. A .env file
// in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"cine-lens.yaml", "cine-lens.yml"}

type Config struct {
	Data     DataConfig     `koanf:"data"`
	Rating   RatingConfig   `koanf:"rating"`
	Email    EmailConfig    `koanf:"email"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Log      LogConfig      `koanf:"log"`
}

type DataConfig struct {
	CatalogPath string `koanf:"catalog_path"` // cleaned CSV
	Path        string `koanf:"path"`         // directory holding the SQLite database
}

type RatingConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

type EmailConfig struct {
	SMTPHost       string `koanf:"smtp_host"`
	SMTPPort       int    `koanf:"smtp_port"`
	SenderEmail    string `koanf:"sender"`
	SenderPassword string `koanf:"password"`
	RecipientEmail string `koanf:"recipient"`
}

// Enabled reports whether enough is configured to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.RecipientEmail != ""
}

type ScheduleConfig struct {
	Digest string `koanf:"digest"` // cron spec with seconds
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"DATA_FILE":       "data.catalog_path",
	"DATA_PATH":       "data.path",
	"OMDB_BASE_URL":   "rating.base_url",
	"OMDB_API_KEY":    "rating.api_key",
	"OMDB_TIMEOUT":    "rating.timeout",
	"EMAIL_SMTP_HOST": "email.smtp_host",
	"EMAIL_SMTP_PORT": "email.smtp_port",
	"EMAIL_SENDER":    "email.sender",
	"EMAIL_PASSWORD":  "email.password",
	"EMAIL_RECIPIENT": "email.recipient",
	"DIGEST_SCHEDULE": "schedule.digest",
	"LOG_LEVEL":       "log.level",
	"LOG_FORMAT":      "log.format",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			CatalogPath: "./data/processed/netflix_cleaned.csv",
			Path:        "./data",
		},
		Rating: RatingConfig{
			BaseURL: "https://www.omdbapi.com/",
			Timeout: 5 * time.Second,
		},
		Email: EmailConfig{
			SMTPPort: 587,
		},
		Schedule: ScheduleConfig{
			// 10am and 5pm every day
			Digest: "0 0 10,17 * * *",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path; an empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Data.CatalogPath) == "" {
		errs = append(errs, errors.New("data.catalog_path is required"))
	}
	if c.Rating.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("rating.timeout must be positive, got %s", c.Rating.Timeout))
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("email.smtp_port out of range: %d", c.Email.SMTPPort))
	}
	return errors.Join(errs...)
}

func envKey(name string) string {
	return envKeys[name]
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
