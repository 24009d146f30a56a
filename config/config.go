// Package config provides configuration loading for the ndspace binary.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the complete ndspace configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Scene  SceneConfig  `yaml:"scene"`
}

// ServerConfig configures the HTTP tool server
type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string `yaml:"addr"`
	// MaxBodyBytes caps tool request bodies (default: 1 MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// Metrics enables the /metrics endpoint
	Metrics bool `yaml:"metrics"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `yaml:"level"`
	// Format is text or json (default: text)
	Format string `yaml:"format"`
}

// SceneConfig configures the scene the server starts with
type SceneConfig struct {
	// Preload lists scene files applied at startup, in order
	Preload []string `yaml:"preload"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			MaxBodyBytes:      1 << 20,
			Metrics:           true,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalid)
	}
	for name, d := range map[string]time.Duration{
		"read_header_timeout": c.Server.ReadHeaderTimeout,
		"read_timeout":        c.Server.ReadTimeout,
		"write_timeout":       c.Server.WriteTimeout,
		"idle_timeout":        c.Server.IdleTimeout,
		"shutdown_timeout":    c.Server.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: server.%s must not be negative", ErrInvalid, name)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalid, level)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.MaxBodyBytes != 0 {
		c.Server.MaxBodyBytes = other.Server.MaxBodyBytes
	}
	if other.Server.ReadHeaderTimeout != 0 {
		c.Server.ReadHeaderTimeout = other.Server.ReadHeaderTimeout
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
	if other.Server.IdleTimeout != 0 {
		c.Server.IdleTimeout = other.Server.IdleTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	// Scene
	if len(other.Scene.Preload) > 0 {
		c.Scene.Preload = other.Scene.Preload
	}
}

// NewLogger builds the logger the configuration describes.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
