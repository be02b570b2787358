package classcache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds classification cache settings. URL is a redis connection
// string (redis://host:port/db).
type Config struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	TTL     string `toml:"ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled string
	URL     string
	TTL     string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
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

// Merge overwrites fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled

	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
}

func (c *Config) loadDefaults() {
	if c.URL == "" {
		c.URL = "redis://localhost:6379/0"
	}
	if c.TTL == "" {
		c.TTL = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.URL != "" {
		if v := os.Getenv(env.URL); v != "" {
			c.URL = v
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	return nil
}
