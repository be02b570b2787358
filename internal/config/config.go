// Package config loads and finalizes Minutes service configuration from
// toml files, environment overlays, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/planloom/minutes/internal/backend"
	"github.com/planloom/minutes/internal/classcache"
	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/internal/reconcile"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMinutesEnv             = "MINUTES_ENV"
	EnvMinutesShutdownTimeout = "MINUTES_SHUTDOWN_TIMEOUT"
	EnvMinutesVersion         = "MINUTES_VERSION"
)

var backendEnv = &backend.Env{
	BaseURL:         "MINUTES_BACKEND_BASE_URL",
	Token:           "MINUTES_BACKEND_TOKEN",
	StatusTimeout:   "MINUTES_BACKEND_STATUS_TIMEOUT",
	ClassifyTimeout: "MINUTES_BACKEND_CLASSIFY_TIMEOUT",
	ResolveTimeout:  "MINUTES_BACKEND_RESOLVE_TIMEOUT",
}

var cacheEnv = &classcache.Env{
	Enabled: "MINUTES_CACHE_ENABLED",
	URL:     "MINUTES_CACHE_URL",
	TTL:     "MINUTES_CACHE_TTL",
}

var meetingsEnv = &meetings.Env{
	PollDelay:   "MINUTES_POLL_DELAY",
	MaxAttempts: "MINUTES_POLL_MAX_ATTEMPTS",
}

var reconcileEnv = &reconcile.Env{
	SessionTTL:    "MINUTES_SESSION_TTL",
	SweepSchedule: "MINUTES_SESSION_SWEEP_SCHEDULE",
}

// Config is the root configuration for the Minutes service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Backend         backend.Config    `toml:"backend"`
	Cache           classcache.Config `toml:"cache"`
	Meetings        meetings.Config   `toml:"meetings"`
	Sessions        reconcile.Config  `toml:"sessions"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the MINUTES_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMinutesEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Backend.Merge(&overlay.Backend)
	c.Cache.Merge(&overlay.Cache)
	c.Meetings.Merge(&overlay.Meetings)
	c.Sessions.Merge(&overlay.Sessions)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Backend.Finalize(backendEnv); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Meetings.Finalize(meetingsEnv); err != nil {
		return fmt.Errorf("meetings: %w", err)
	}
	if err := c.Sessions.Finalize(reconcileEnv); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMinutesShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMinutesVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMinutesEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
