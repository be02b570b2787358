// Package classcache provides a redis-backed, session-scoped cache of the
// most recent classification per meeting. It is a convenience layer only:
// a miss or a redis failure always falls through to a fresh classification
// fetch, so correctness never depends on it.
package classcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/pkg/lifecycle"
)

const keyPrefix = "classification:"

// System manages cached classifications and lifecycle coordination.
type System interface {
	// Start registers connection hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Get returns the cached classification for a meeting, if present.
	Get(ctx context.Context, id uuid.UUID) (*meetings.Classification, bool)
	// Set stores the classification for a meeting with the configured TTL.
	Set(ctx context.Context, id uuid.UUID, c *meetings.Classification)
	// Delete evicts a meeting's cached classification.
	Delete(ctx context.Context, id uuid.UUID)
}

type cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a classification cache from the given configuration.
// Returns a no-op system when the cache is disabled.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if !cfg.Enabled {
		return noop{}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	return &cache{
		client: redis.NewClient(opts),
		ttl:    cfg.TTLDuration(),
		logger: logger.With("system", "classcache"),
	}, nil
}

// NewWithClient creates a cache from an existing redis client. Used in tests.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) System {
	return &cache{
		client: client,
		ttl:    ttl,
		logger: logger.With("system", "classcache"),
	}
}

func (c *cache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting classification cache")

	lc.OnStartup(func() {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Error("redis ping failed", "error", err)
			return
		}
		c.logger.Info("classification cache connected")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("redis close failed", "error", err)
		}
	})

	return nil
}

func (c *cache) Get(ctx context.Context, id uuid.UUID) (*meetings.Classification, bool) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "meeting_id", id, "error", err)
		}
		return nil, false
	}

	var classification meetings.Classification
	if err := json.Unmarshal(data, &classification); err != nil {
		c.logger.Warn("cache entry corrupt, evicting", "meeting_id", id, "error", err)
		c.Delete(ctx, id)
		return nil, false
	}

	return &classification, true
}

func (c *cache) Set(ctx context.Context, id uuid.UUID, classification *meetings.Classification) {
	data, err := json.Marshal(classification)
	if err != nil {
		c.logger.Warn("cache marshal failed", "meeting_id", id, "error", err)
		return
	}

	if err := c.client.Set(ctx, key(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "meeting_id", id, "error", err)
	}
}

func (c *cache) Delete(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.logger.Warn("cache delete failed", "meeting_id", id, "error", err)
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

type noop struct{}

func (noop) Start(*lifecycle.Coordinator) error { return nil }

func (noop) Get(context.Context, uuid.UUID) (*meetings.Classification, bool) {
	return nil, false
}

func (noop) Set(context.Context, uuid.UUID, *meetings.Classification) {}

func (noop) Delete(context.Context, uuid.UUID) {}
