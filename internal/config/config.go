package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Recovery pointer backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the complete application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
	Time     TimeConfig     `mapstructure:"time"`
	Server   ServerConfig   `mapstructure:"server"`

	location *time.Location
}

// StorageConfig defines where the session database lives
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"` // empty logs to stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RecoveryConfig defines where the active-session pointer is kept
type RecoveryConfig struct {
	Backend string      `mapstructure:"backend"`
	Key     string      `mapstructure:"key"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines the Redis pointer backend
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// TimeConfig defines the zone days and weeks are computed in
type TimeConfig struct {
	Location string `mapstructure:"location"`
}

// ServerConfig defines the metrics endpoint
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// Location returns the configured zone
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Dir returns ~/.vibetrack, falling back to a relative .vibetrack
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibetrack"
	}
	return filepath.Join(home, ".vibetrack")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load loads configuration from file and environment variables.
// An empty configPath reads the default file if it exists.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}

	// Configure viper
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("VIBETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file, use defaults and environment variables
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	dir := Dir()

	// Storage defaults
	v.SetDefault("storage.path", filepath.Join(dir, "vibetrack.db"))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", filepath.Join(dir, "vibetrack.log"))
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)

	// Recovery defaults
	v.SetDefault("recovery.backend", BackendSQLite)
	v.SetDefault("recovery.key", "active_timer_state_v1")
	v.SetDefault("recovery.redis.addr", "127.0.0.1:6379")
	v.SetDefault("recovery.redis.password", "")
	v.SetDefault("recovery.redis.db", 0)
	v.SetDefault("recovery.redis.dial_timeout", "5s")

	// Time defaults
	v.SetDefault("time.location", "Local")

	// Server defaults
	v.SetDefault("server.listen", "127.0.0.1:9477")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", cfg.Logging.Format)
	}

	switch cfg.Recovery.Backend {
	case BackendSQLite:
	case BackendRedis:
		if cfg.Recovery.Redis.Addr == "" {
			return fmt.Errorf("recovery.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid recovery backend: %q", cfg.Recovery.Backend)
	}

	if cfg.Recovery.Key == "" {
		return fmt.Errorf("recovery key is required")
	}

	loc, err := time.LoadLocation(cfg.Time.Location)
	if err != nil {
		return fmt.Errorf("invalid time location %q: %w", cfg.Time.Location, err)
	}
	cfg.location = loc

	return nil
}
