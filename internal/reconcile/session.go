package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planloom/minutes/internal/meetings"
)

// Applier submits the final decision list to the requirement store.
// It is implemented by the backend client.
type Applier interface {
	Resolve(ctx context.Context, id uuid.UUID, decisions []meetings.ApplyDecision) error
}

// Outcome reports a confirmed apply.
type Outcome struct {
	MeetingID uuid.UUID `json:"meeting_id"`
	Decisions int       `json:"decisions"`
	AppliedAt time.Time `json:"applied_at"`
}

// SessionView is a point-in-time snapshot of a session for the
// presentation layer.
type SessionView struct {
	MeetingID      uuid.UUID               `json:"meeting_id"`
	ProjectID      uuid.UUID               `json:"project_id"`
	Status         meetings.Status         `json:"status"`
	Applied        bool                    `json:"applied"`
	Classification *meetings.Classification `json:"classification"`
	Resolutions    map[string]Resolution   `json:"resolutions"`
	Categories     CategoryView            `json:"categories"`
	CreatedAt      time.Time               `json:"created_at"`
	LastActive     time.Time               `json:"last_active"`
}

// Session owns the reconciliation state for one meeting: the immutable
// classification, the working resolution set, and the apply guards. It is
// created on meeting select and discarded on apply success or navigation.
// All operations serialize on the session mutex.
type Session struct {
	mu             sync.Mutex
	meeting        meetings.Meeting
	classification *meetings.Classification
	conflicts      map[string]meetings.Conflict
	store          *Store
	applier        Applier
	logger         *slog.Logger

	applied  bool
	inFlight bool

	createdAt  time.Time
	lastActive time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(
	parent context.Context,
	result *meetings.Result,
	applier Applier,
	logger *slog.Logger,
) *Session {
	ctx, cancel := context.WithCancel(parent)

	conflicts := make(map[string]meetings.Conflict, len(result.Classification.Conflicts))
	for _, conflict := range result.Classification.Conflicts {
		conflicts[conflict.ItemID] = conflict
	}

	now := time.Now()
	return &Session{
		meeting:        result.Meeting,
		classification: result.Classification,
		conflicts:      conflicts,
		store:          NewStore(),
		applier:        applier,
		logger:         logger.With("meeting_id", result.Meeting.ID),
		applied:        result.Meeting.Status == meetings.StatusApplied,
		createdAt:      now,
		lastActive:     now,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// MeetingID returns the meeting this session reconciles.
func (s *Session) MeetingID() uuid.UUID {
	return s.meeting.ID
}

// SetDecision records the user's decision for a conflicting item.
func (s *Session) SetDecision(itemID string, decision Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(itemID); err != nil {
		return err
	}
	return s.store.SetDecision(itemID, decision)
}

// SetMergedText records merge text for a conflicting item.
func (s *Session) SetMergedText(itemID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(itemID); err != nil {
		return err
	}
	s.store.SetMergedText(itemID, text)
	return nil
}

// AcceptDefaults applies AI-suggested decisions to all currently
// unresolved conflicts. Returns the number of conflicts defaulted.
func (s *Session) AcceptDefaults() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied {
		return 0, ErrAlreadyApplied
	}

	s.touchLocked()
	return s.store.AcceptAIDefaults(s.classification.Conflicts), nil
}

// Apply builds the decision list fresh and submits it exactly once. The
// in-flight guard is set before the request is issued, so a rapid double
// submit is rejected locally without a second network call. On failure all
// resolution state is preserved for a manual retry; the applied flag only
// flips on confirmed success.
func (s *Session) Apply(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	s.touchLocked()

	if s.applied {
		s.mu.Unlock()
		return nil, ErrAlreadyApplied
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrApplyInFlight
	}
	if !s.store.IsComplete(s.classification.Conflicts) {
		s.mu.Unlock()
		return nil, ErrIncompleteResolution
	}

	decisions, err := BuildDecisions(s.classification, s.store)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.inFlight = true
	meetingID := s.meeting.ID
	s.mu.Unlock()

	// Bound the request by both the caller and the session, so a
	// discarded session abandons its outstanding apply.
	applyCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	submitErr := s.applier.Resolve(applyCtx, meetingID, decisions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if submitErr != nil {
		s.logger.Warn("apply failed", "error", submitErr, "decisions", len(decisions))
		return nil, &ApplyError{Err: submitErr}
	}

	s.applied = true
	s.meeting.Status = meetings.StatusApplied
	s.store.Reset()

	s.logger.Info("decisions applied", "decisions", len(decisions))
	return &Outcome{
		MeetingID: meetingID,
		Decisions: len(decisions),
		AppliedAt: time.Now(),
	}, nil
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionView{
		MeetingID:      s.meeting.ID,
		ProjectID:      s.meeting.ProjectID,
		Status:         s.meeting.Status,
		Applied:        s.applied,
		Classification: s.classification,
		Resolutions:    s.store.Snapshot(),
		Categories:     NewCategoryView(s.classification, s.store),
		CreatedAt:      s.createdAt,
		LastActive:     s.lastActive,
	}
}

// discard cancels any outstanding work owned by the session.
func (s *Session) discard() {
	s.cancel()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) mutableLocked(itemID string) error {
	if s.applied {
		return ErrAlreadyApplied
	}
	if _, ok := s.conflicts[itemID]; !ok {
		return ErrUnknownConflict
	}
	s.touchLocked()
	return nil
}

func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}
