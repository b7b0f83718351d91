package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Planner  PlannerConfig  `toml:"planner"`
	Database DatabaseConfig `toml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port                int `toml:"port"`
	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`
}

// ReadTimeout returns the read timeout as a time.Duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a time.Duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// PlannerConfig holds reading plan engine settings.
type PlannerConfig struct {
	// Timezone is the IANA zone used for stats timestamps and plan expiry.
	Timezone string `toml:"timezone"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

const (
	defaultPort         = 8080
	defaultTimeout      = 10
	defaultTimezone     = "Europe/Kiev"
	defaultDatabasePath = "data/readplan.db"
)

const defaultConfigContent = `[server]
port = 8080
read_timeout_seconds = 10
write_timeout_seconds = 10

[planner]
timezone = "Europe/Kiev"          # Reference zone for stats and expiry

[database]
path = "data/readplan.db"         # Relative paths resolve from the working directory
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("server", "read_timeout_seconds") && cfg.Server.ReadTimeoutSeconds < 1 {
		return fmt.Errorf("invalid server.read_timeout_seconds %d: must be >= 1", cfg.Server.ReadTimeoutSeconds)
	}
	if md.IsDefined("server", "write_timeout_seconds") && cfg.Server.WriteTimeoutSeconds < 1 {
		return fmt.Errorf("invalid server.write_timeout_seconds %d: must be >= 1", cfg.Server.WriteTimeoutSeconds)
	}
	if md.IsDefined("planner", "timezone") && cfg.Planner.Timezone == "" {
		return errors.New("invalid planner.timezone: must not be empty")
	}
	if md.IsDefined("database", "path") && cfg.Database.Path == "" {
		return errors.New("invalid database.path: must not be empty")
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = defaultTimeout
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = defaultTimeout
	}
	if cfg.Planner.Timezone == "" {
		cfg.Planner.Timezone = defaultTimezone
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("READPLAN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("READPLAN_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("READPLAN_TIMEZONE"); v != "" {
		cfg.Planner.Timezone = v
	}
	if v := os.Getenv("READPLAN_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	return nil
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if _, err := time.LoadLocation(cfg.Planner.Timezone); err != nil {
		return fmt.Errorf("invalid planner.timezone %q: %w", cfg.Planner.Timezone, err)
	}

	if cfg.Planner.Timezone != defaultTimezone {
		slog.Warn("planner.timezone differs from the reference zone; stats timestamps and expiry will shift",
			"timezone", cfg.Planner.Timezone, "reference", defaultTimezone)
	}

	return nil
}
