package reconcile

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds session lifecycle settings. SessionTTL bounds how long an
// idle session survives; SweepSchedule is a cron expression for the
// eviction pass.
type Config struct {
	SessionTTL    string `toml:"session_ttl"`
	SweepSchedule string `toml:"sweep_schedule"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	SessionTTL    string
	SweepSchedule string
}

// SessionTTLDuration returns SessionTTL as a time.Duration.
func (c *Config) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
	if overlay.SweepSchedule != "" {
		c.SweepSchedule = overlay.SweepSchedule
	}
}

func (c *Config) loadDefaults() {
	if c.SessionTTL == "" {
		c.SessionTTL = "30m"
	}
	if c.SweepSchedule == "" {
		c.SweepSchedule = "@every 1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SessionTTL != "" {
		if v := os.Getenv(env.SessionTTL); v != "" {
			c.SessionTTL = v
		}
	}
	if env.SweepSchedule != "" {
		if v := os.Getenv(env.SweepSchedule); v != "" {
			c.SweepSchedule = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.SessionTTL); err != nil {
		return fmt.Errorf("invalid session_ttl: %w", err)
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		return fmt.Errorf("invalid sweep_schedule: %w", err)
	}
	return nil
}
