// Package config loads gitscope settings from an optional TOML file and
// GITSCOPE_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env"
	"github.com/odvcencio/gitscope/pkg/archive"
	"github.com/odvcencio/gitscope/pkg/repo"
)

const (
	// FileName is looked up in the working directory when no path is given.
	FileName = "gitscope.toml"
	// PathEnv names a config file explicitly.
	PathEnv = "GITSCOPE_CONFIG"
)

// Config holds every tunable setting.
type Config struct {
	Workers         int    `toml:"workers" env:"GITSCOPE_WORKERS"`
	VerifyObjects   bool   `toml:"verify_objects" env:"GITSCOPE_VERIFY_OBJECTS"`
	MaxArchiveBytes int64  `toml:"max_archive_bytes" env:"GITSCOPE_MAX_ARCHIVE_BYTES"`
	MaxEntryBytes   int64  `toml:"max_entry_bytes" env:"GITSCOPE_MAX_ENTRY_BYTES"`
	LogLevel        string `toml:"log_level" env:"GITSCOPE_LOG_LEVEL"`
	LogJSON         bool   `toml:"log_json" env:"GITSCOPE_LOG_JSON"`
	ListenAddr      string `toml:"listen_addr" env:"GITSCOPE_LISTEN_ADDR"`

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workers:         runtime.NumCPU(),
		VerifyObjects:   true,
		MaxArchiveBytes: 512 << 20,
		MaxEntryBytes:   64 << 20,
		LogLevel:        "info",
		ListenAddr:      ":8080",
	}
}

// Load reads path (or GITSCOPE_CONFIG, or ./gitscope.toml when present) on
// top of the defaults, then applies environment overrides. An explicitly
// named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(PathEnv); p != "" {
			path, explicit = p, true
		} else {
			path = FileName
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else {
		cfg.path, _ = filepath.Abs(path)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.MaxArchiveBytes < 0 || c.MaxEntryBytes < 0 {
		return fmt.Errorf("config: size limits must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Path returns the absolute path of the file that was loaded, if any.
func (c *Config) Path() string { return c.path }

// ParserOptions maps the config onto parser options.
func (c *Config) ParserOptions() repo.Options {
	opts := repo.DefaultOptions()
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	opts.VerifyObjects = c.VerifyObjects
	return opts
}

// Limits maps the config onto archive extraction limits.
func (c *Config) Limits() archive.Limits {
	return archive.Limits{MaxArchiveBytes: c.MaxArchiveBytes, MaxEntryBytes: c.MaxEntryBytes}
}
