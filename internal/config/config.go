// Package config provides configuration management for sieve.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/sieve/internal/observability"
)

// Config holds all configuration for sieve.
type Config struct {
	// Models is the directory or file holding model descriptors.
	Models string `mapstructure:"models"`
	// Database is the SQLite database path (":memory:" for in-memory).
	Database string `mapstructure:"database"`
	// Server contains HTTP API settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Cache contains plan cache settings.
	Cache CacheConfig `mapstructure:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:8080).
	Addr string `mapstructure:"addr"`
	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// CacheConfig holds plan cache configuration.
type CacheConfig struct {
	// Size is the number of cached plans; 0 disables the cache.
	Size int `mapstructure:"size"`
}

// Observability converts the logging section for observability.NewLogger.
func (c LoggingConfig) Observability() observability.LoggingConfig {
	cfg := observability.DefaultLoggingConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Output = c.Output
	return cfg
}

// Load reads configuration from defaults, an optional sieve.yaml and
// SIEVE_* environment variables, in increasing precedence. path, when
// non-empty, names the config file explicitly and must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SIEVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sieve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("models", "models")
	v.SetDefault("database", ":memory:")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("cache.size", 256)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must be >= 0, got %d", c.Cache.Size)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
