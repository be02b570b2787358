package reconcile

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/pkg/lifecycle"
	"github.com/planloom/minutes/pkg/pagination"
)

// Manager owns the live reconciliation sessions, keyed by meeting ID.
// Sessions are created on meeting select, discarded on navigation, and
// evicted after the configured idle TTL by a scheduled sweep.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	meetings meetings.System
	applier  Applier
	logger   *slog.Logger

	ttl      time.Duration
	schedule string
	cron     *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc

	pagination pagination.Config
}

// NewManager creates a session manager over the given meeting system and
// applier.
func NewManager(
	sys meetings.System,
	applier Applier,
	cfg *Config,
	pageCfg pagination.Config,
	logger *slog.Logger,
) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		sessions:   make(map[uuid.UUID]*Session),
		meetings:   sys,
		applier:    applier,
		logger:     logger.With("system", "reconcile"),
		ttl:        cfg.SessionTTLDuration(),
		schedule:   cfg.SweepSchedule,
		ctx:        ctx,
		cancel:     cancel,
		pagination: pageCfg,
	}
}

// Handler returns the HTTP handler exposing the manager to the
// presentation layer.
func (m *Manager) Handler() *Handler {
	return NewHandler(m, m.logger, m.pagination)
}

// Start registers the session sweeper and shutdown teardown with the
// lifecycle coordinator.
func (m *Manager) Start(lc *lifecycle.Coordinator) error {
	c := cron.New()
	if _, err := c.AddFunc(m.schedule, m.sweep); err != nil {
		return err
	}
	m.cron = c

	lc.OnStartup(func() {
		c.Start()
		m.logger.Info("session sweeper started", "schedule", m.schedule, "ttl", m.ttl)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		stopCtx := c.Stop()
		<-stopCtx.Done()

		m.cancel()
		m.discardAll()
		m.logger.Info("sessions discarded")
	})

	return nil
}

// Open returns the live session for a meeting, creating one if none
// exists. Creation runs the readiness poll and classification fetch; an
// already-applied meeting still opens read-only.
func (m *Manager) Open(ctx context.Context, meetingID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if session, ok := m.sessions[meetingID]; ok {
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	result, err := m.meetings.FetchClassification(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A concurrent Open may have won; keep its session so resolution
	// state is never split across two stores.
	if session, ok := m.sessions[meetingID]; ok {
		return session, nil
	}

	session := newSession(m.ctx, result, m.applier, m.logger)
	m.sessions[meetingID] = session

	m.logger.Info("session opened",
		"meeting_id", meetingID,
		"status", result.Meeting.Status,
		"items", result.Classification.Total(),
	)
	return session, nil
}

// Get returns the live session for a meeting.
func (m *Manager) Get(meetingID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[meetingID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Discard tears down a session, cancelling any outstanding work so a late
// response cannot resurrect stale state.
func (m *Manager) Discard(meetingID uuid.UUID) error {
	m.mu.Lock()
	session, ok := m.sessions[meetingID]
	if ok {
		delete(m.sessions, meetingID)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.discard()
	m.logger.Info("session discarded", "meeting_id", meetingID)
	return nil
}

// List returns a page of session snapshots, most recently created first.
func (m *Manager) List(req pagination.PageRequest) pagination.PageResult[SessionView] {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.Unlock()

	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		view := session.Snapshot()
		if req.Search != nil && !matchesSearch(view, *req.Search) {
			continue
		}
		views = append(views, view)
	}

	slices.SortFunc(views, func(a, b SessionView) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return pagination.Slice(views, req)
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.idleSince().Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.discard()
		m.logger.Info("idle session evicted", "meeting_id", session.MeetingID())
	}
}

func (m *Manager) discardAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.discard()
	}
}

func matchesSearch(view SessionView, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(view.MeetingID.String()), search) ||
		strings.Contains(strings.ToLower(view.ProjectID.String()), search) ||
		strings.Contains(strings.ToLower(string(view.Status)), search)
}
