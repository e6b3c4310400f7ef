// Package config provides CLI configuration management for the sitebook
// command-line tool. It supports loading configuration from YAML files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultOrgID        = "default"
	DefaultTimeout      = 30 * time.Second
	DefaultOutputFormat = OutputFormatText
	DefaultConfigDir    = ".sitebook"
	DefaultConfigFile   = "config.yaml"
	DefaultRedisAddr    = "localhost:6379"
	DefaultSessionTTL   = 24 * time.Hour
)

// RedisConfig holds Redis connection settings for import sessions.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr"`

	// Password is the Redis password, if required.
	Password string `yaml:"password,omitempty"`

	// DB is the Redis database number.
	DB int `yaml:"db,omitempty"`
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// OrgID is the organization whose contacts commands operate on.
	OrgID string `yaml:"org_id"`

	// Timeout is the default timeout for commands that touch storage.
	Timeout time.Duration `yaml:"timeout"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// SessionTTL is how long an unfinished import session is kept.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// Database holds PostgreSQL connection settings.
	Database *db.Config `yaml:"database,omitempty"`

	// Redis holds Redis connection settings.
	Redis RedisConfig `yaml:"redis"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		OrgID:        DefaultOrgID,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultOutputFormat,
		SessionTTL:   DefaultSessionTTL,
		Database:     db.DefaultConfig(),
		Redis:        RedisConfig{Addr: DefaultRedisAddr},
	}
}

// ConfigDir returns the configuration directory path.
// Uses $SITEBOOK_CONFIG_DIR if set, otherwise ~/.sitebook
func ConfigDir() (string, error) {
	if dir := os.Getenv("SITEBOOK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment
// variables. Configuration is loaded in this order (later sources
// override earlier):
// 1. Default values
// 2. Config file (~/.sitebook/config.yaml or $SITEBOOK_CONFIG_DIR/config.yaml)
// 3. Environment variables (SITEBOOK_ORG_ID, SITEBOOK_TIMEOUT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// configFile mirrors CLIConfig with durations as strings for YAML.
type configFile struct {
	OrgID        string       `yaml:"org_id,omitempty"`
	Timeout      string       `yaml:"timeout,omitempty"`
	OutputFormat OutputFormat `yaml:"output_format,omitempty"`
	Debug        bool         `yaml:"debug,omitempty"`
	SessionTTL   string       `yaml:"session_ttl,omitempty"`
	Database     *db.Config   `yaml:"database,omitempty"`
	Redis        *RedisConfig `yaml:"redis,omitempty"`
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.OrgID != "" {
		cfg.OrgID = fileCfg.OrgID
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.SessionTTL != "" {
		ttl, err := time.ParseDuration(fileCfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("parsing session_ttl: %w", err)
		}
		cfg.SessionTTL = ttl
	}
	if fileCfg.Database != nil {
		cfg.Database = fileCfg.Database
	}
	if fileCfg.Redis != nil {
		cfg.Redis = *fileCfg.Redis
	}
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("SITEBOOK_ORG_ID"); v != "" {
		cfg.OrgID = v
	}

	if v := os.Getenv("SITEBOOK_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("SITEBOOK_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("SITEBOOK_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("SITEBOOK_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if cfg.Database == nil {
		cfg.Database = db.DefaultConfig()
	}
	cfg.Database.ApplyEnv()
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.OrgID == "" {
		return fmt.Errorf("org_id is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)

	fileCfg := configFile{
		OrgID:        cfg.OrgID,
		Timeout:      cfg.Timeout.String(),
		OutputFormat: cfg.OutputFormat,
		Debug:        cfg.Debug,
		SessionTTL:   cfg.SessionTTL.String(),
		Database:     cfg.Database,
		Redis:        &cfg.Redis,
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
