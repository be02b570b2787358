package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type poller struct {
	source      Source
	cache       Cache
	clock       Clock
	delay       time.Duration
	maxAttempts int
	logger      *slog.Logger
	group       singleflight.Group
}

// New creates a meeting system that polls the given source for readiness.
// cache may be nil when no classification cache is configured.
func New(source Source, cache Cache, cfg *Config, logger *slog.Logger, clock Clock) System {
	if clock == nil {
		clock = SystemClock
	}
	return &poller{
		source:      source,
		cache:       cache,
		clock:       clock,
		delay:       cfg.PollDelayDuration(),
		maxAttempts: cfg.MaxAttempts,
		logger:      logger.With("system", "meetings"),
	}
}

func (p *poller) Status(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	return p.source.Meeting(ctx, id)
}

// FetchClassification drives the readiness state machine: status checks
// separated by a fixed delay, bounded by the attempt budget. "Still
// processing" retries happen here; network and server errors are handed
// back to the caller for a user-initiated retry.
func (p *poller) FetchClassification(ctx context.Context, id uuid.UUID) (*Result, error) {
	meeting, err := p.awaitReady(ctx, id)
	if err != nil {
		return nil, err
	}

	classification, err := p.classify(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Result{
		Meeting:        *meeting,
		Classification: classification,
	}, nil
}

func (p *poller) awaitReady(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		meeting, err := p.source.Meeting(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("meeting status %s: %w", id, err)
		}

		if meeting.Status.Ready() {
			return meeting, nil
		}

		if attempt == p.maxAttempts {
			p.logger.Warn("readiness budget exhausted",
				"meeting_id", id,
				"attempts", attempt,
				"last_status", meeting.Status,
			)
			return nil, &NotReadyError{LastStatus: meeting.Status, Attempts: attempt}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.clock.After(p.delay):
		}
	}

	// unreachable: maxAttempts is validated positive
	return nil, &NotReadyError{Attempts: p.maxAttempts}
}

// classify issues the classification request, collapsing concurrent fetches
// for the same meeting into a single upstream call.
func (p *poller) classify(ctx context.Context, id uuid.UUID) (*Classification, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, id); ok {
			p.logger.Info("classification cache hit", "meeting_id", id)
			return cached, nil
		}
	}

	v, err, _ := p.group.Do(id.String(), func() (any, error) {
		classification, err := p.source.Classify(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrClassification, err)
		}

		if err := classification.Validate(); err != nil {
			return nil, err
		}

		return classification, nil
	})
	if err != nil {
		return nil, err
	}

	classification := v.(*Classification)

	if p.cache != nil {
		p.cache.Set(ctx, id, classification)
	}

	p.logger.Info("classification fetched",
		"meeting_id", id,
		"added", len(classification.Added),
		"skipped", len(classification.Skipped),
		"conflicts", len(classification.Conflicts),
	)
	return classification, nil
}
