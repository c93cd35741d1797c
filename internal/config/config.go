// Package config loads ainotes settings from defaults, an optional YAML file,
// a .env file and AINOTES_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backends accepted by Storage.Backend.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Defaults.
const (
	DefaultBackend         = BackendFS
	DefaultAddr            = "127.0.0.1:7070"
	DefaultEndpoint        = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
	DefaultTimeout         = 30 * time.Second
	DefaultRate            = 1.0
	DefaultBurst           = 3
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the complete ainotes configuration.
type Config struct {
	Storage StorageConfig `koanf:"storage" yaml:"storage"`
	Summary SummaryConfig `koanf:"summary" yaml:"summary"`
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
}

// StorageConfig selects where notes live.
type StorageConfig struct {
	DataDir string `koanf:"data_dir" yaml:"data_dir"`
	Backend string `koanf:"backend" yaml:"backend"`
	// Strict surfaces write failures instead of only logging them.
	Strict bool `koanf:"strict" yaml:"strict"`
}

// SummaryConfig configures the remote summary endpoint.
// Without an API key the offline summarizer is used.
type SummaryConfig struct {
	Endpoint   string        `koanf:"endpoint" yaml:"endpoint"`
	APIKey     Secret        `koanf:"api_key" yaml:"api_key"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout"`
	Rate       float64       `koanf:"rate" yaml:"rate"`
	Burst      int           `koanf:"burst" yaml:"burst"`
	MaxRetries int           `koanf:"max_retries" yaml:"max_retries"`
	// Fallback stores FallbackText as the summary when generation fails.
	Fallback     bool   `koanf:"fallback" yaml:"fallback"`
	FallbackText string `koanf:"fallback_text" yaml:"fallback_text"`
}

// ServerConfig configures `ainotes serve`.
type ServerConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
}

// DefaultDataDir returns ~/.local/share/ainotes.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ainotes"), nil
}

// DefaultConfigPath returns ~/.config/ainotes/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ainotes", "config.yaml"), nil
}

func applyDefaults(cfg *Config) error {
	if cfg.Storage.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		cfg.Storage.DataDir = dir
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Summary.Endpoint == "" {
		cfg.Summary.Endpoint = DefaultEndpoint
	}
	if cfg.Summary.Timeout == 0 {
		cfg.Summary.Timeout = DefaultTimeout
	}
	if cfg.Summary.Rate == 0 {
		cfg.Summary.Rate = DefaultRate
	}
	if cfg.Summary.Burst == 0 {
		cfg.Summary.Burst = DefaultBurst
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendFS, BackendSQLite, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be fs, sqlite or memory, got %q", c.Storage.Backend))
	}
	if c.Summary.Timeout < 0 {
		errs = append(errs, errors.New("summary.timeout cannot be negative"))
	}
	if c.Summary.Burst < 0 {
		errs = append(errs, errors.New("summary.burst cannot be negative"))
	}
	if c.Summary.MaxRetries < 0 {
		errs = append(errs, errors.New("summary.max_retries cannot be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
