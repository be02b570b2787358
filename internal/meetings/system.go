package meetings

import (
	"context"

	"github.com/google/uuid"
)

// Source is the upstream interface the polling system consumes.
// It is implemented by the backend client.
type Source interface {
	// Meeting returns the current status record for a meeting.
	Meeting(ctx context.Context, id uuid.UUID) (*Meeting, error)
	// Classify triggers the idempotent classification step and returns
	// its result. The call may invoke pairwise semantic comparisons
	// against every existing requirement, so it can run long.
	Classify(ctx context.Context, id uuid.UUID) (*Classification, error)
}

// Cache is an optional session-scoped store for the most recent
// classification per meeting. Correctness never depends on it.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*Classification, bool)
	Set(ctx context.Context, id uuid.UUID, c *Classification)
}

// Result pairs a classification with the meeting record that produced it,
// so callers can tell whether the meeting is already applied.
type Result struct {
	Meeting        Meeting         `json:"meeting"`
	Classification *Classification `json:"classification"`
}

// System defines the public contract for meeting domain operations.
type System interface {
	// Status returns the current meeting status without polling.
	Status(ctx context.Context, id uuid.UUID) (*Meeting, error)
	// FetchClassification waits for the meeting to reach a ready status
	// within the bounded retry budget, then issues exactly one
	// classification request per readiness determination.
	FetchClassification(ctx context.Context, id uuid.UUID) (*Result, error)
}
