// Package config loads exrows settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "EXROWS_LOG_LEVEL"
	EnvLogFormat = "EXROWS_LOG_FORMAT"
	EnvDryRun    = "EXROWS_DRY_RUN"
)

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// EngineConfig configures document engines.
type EngineConfig struct {
	// DryRun keeps changes in memory and never writes documents.
	DryRun bool `yaml:"dry_run"`
	// CSVDelimiter is the field separator for .csv documents.
	CSVDelimiter string `yaml:"csv_delimiter"`
}

// ServerConfig configures the stdio tool server.
type ServerConfig struct {
	Name string `yaml:"name"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Engine:  EngineConfig{CSVDelimiter: ","},
		Server:  ServerConfig{Name: "excel workbook actions"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if len([]rune(c.Engine.CSVDelimiter)) != 1 {
		return fmt.Errorf("engine.csv_delimiter must be a single character, got %q", c.Engine.CSVDelimiter)
	}
	return nil
}

// Delimiter returns the csv field separator.
func (c *Config) Delimiter() rune {
	return []rune(c.Engine.CSVDelimiter)[0]
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Logging.Format = v
	}
	if v, ok := os.LookupEnv(EnvDryRun); ok {
		c.Engine.DryRun = ParseBool(v)
	}
}

// ParseBool accepts the usual spellings of true; everything else is false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
