// Package config loads the scenario runner configuration: a YAML file
// overlaid with L5R_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the scenario runner.
type Config struct {
	// Logging
	LogLevel  string  `yaml:"log_level" env:"L5R_LOG_LEVEL"`
	LogFormat string  `yaml:"log_format" env:"L5R_LOG_FORMAT"` // text or json
	LogFile   LogFile `yaml:"log_file" envPrefix:"L5R_LOG_FILE_"`

	// Card catalog; empty means the built-in one
	CatalogPath string `yaml:"catalog_path" env:"L5R_CATALOG"`

	// Runner
	Parallelism int           `yaml:"parallelism" env:"L5R_PARALLELISM"` // games run at once
	Timeout     time.Duration `yaml:"timeout" env:"L5R_TIMEOUT"`         // per run, 0 = none

	// Journal persistence
	SaveJournals bool           `yaml:"save_journals" env:"L5R_SAVE_JOURNALS"`
	Database     DatabaseConfig `yaml:"database" envPrefix:"L5R_DB_"`
}

// LogFile configures the optional rotating log file.
type LogFile struct {
	Path       string `yaml:"path" env:"PATH"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
	Compress   bool   `yaml:"compress" env:"COMPRESS"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Parallelism: 4,
		LogFile: LogFile{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "l5r",
			Password: "l5r",
			DBName:   "l5r",
			SSLMode:  "disable",
		},
	}
}

// Load reads config from a YAML file and applies environment overrides.
// If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Переменные окружения важнее файла
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
