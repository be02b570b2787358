package meetings

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds readiness polling parameters.
type Config struct {
	PollDelay   string `toml:"poll_delay"`
	MaxAttempts int    `toml:"max_attempts"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	PollDelay   string
	MaxAttempts string
}

// PollDelayDuration returns PollDelay as a time.Duration.
func (c *Config) PollDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollDelay)
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
	if overlay.PollDelay != "" {
		c.PollDelay = overlay.PollDelay
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
}

func (c *Config) loadDefaults() {
	if c.PollDelay == "" {
		c.PollDelay = "2s"
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.PollDelay != "" {
		if v := os.Getenv(env.PollDelay); v != "" {
			c.PollDelay = v
		}
	}
	if env.MaxAttempts != "" {
		if v := os.Getenv(env.MaxAttempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAttempts = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.PollDelay); err != nil {
		return fmt.Errorf("invalid poll_delay: %w", err)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	return nil
}
