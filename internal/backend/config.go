package backend

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds connection parameters for the extraction backend.
// ClassifyTimeout is deliberately generous: the classification step may run
// pairwise semantic comparisons against every existing requirement.
type Config struct {
	BaseURL         string `toml:"base_url"`
	Token           string `toml:"token"`
	StatusTimeout   string `toml:"status_timeout"`
	ClassifyTimeout string `toml:"classify_timeout"`
	ResolveTimeout  string `toml:"resolve_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL         string
	Token           string
	StatusTimeout   string
	ClassifyTimeout string
	ResolveTimeout  string
}

// StatusTimeoutDuration returns StatusTimeout as a time.Duration.
func (c *Config) StatusTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StatusTimeout)
	return d
}

// ClassifyTimeoutDuration returns ClassifyTimeout as a time.Duration.
func (c *Config) ClassifyTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ClassifyTimeout)
	return d
}

// ResolveTimeoutDuration returns ResolveTimeout as a time.Duration.
func (c *Config) ResolveTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ResolveTimeout)
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.StatusTimeout != "" {
		c.StatusTimeout = overlay.StatusTimeout
	}
	if overlay.ClassifyTimeout != "" {
		c.ClassifyTimeout = overlay.ClassifyTimeout
	}
	if overlay.ResolveTimeout != "" {
		c.ResolveTimeout = overlay.ResolveTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.StatusTimeout == "" {
		c.StatusTimeout = "10s"
	}
	if c.ClassifyTimeout == "" {
		c.ClassifyTimeout = "180s"
	}
	if c.ResolveTimeout == "" {
		c.ResolveTimeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.StatusTimeout != "" {
		if v := os.Getenv(env.StatusTimeout); v != "" {
			c.StatusTimeout = v
		}
	}
	if env.ClassifyTimeout != "" {
		if v := os.Getenv(env.ClassifyTimeout); v != "" {
			c.ClassifyTimeout = v
		}
	}
	if env.ResolveTimeout != "" {
		if v := os.Getenv(env.ResolveTimeout); v != "" {
			c.ResolveTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if _, err := time.ParseDuration(c.StatusTimeout); err != nil {
		return fmt.Errorf("invalid status_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ClassifyTimeout); err != nil {
		return fmt.Errorf("invalid classify_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.ResolveTimeout); err != nil {
		return fmt.Errorf("invalid resolve_timeout: %w", err)
	}
	return nil
}
