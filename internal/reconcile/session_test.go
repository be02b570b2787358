package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/planloom/minutes/internal/meetings"
)

type fakeApplier struct {
	calls    int
	payloads [][]meetings.ApplyDecision
	err      error

	started chan struct{}
	release chan struct{}
}

func (a *fakeApplier) Resolve(ctx context.Context, id uuid.UUID, decisions []meetings.ApplyDecision) error {
	a.calls++
	a.payloads = append(a.payloads, decisions)
	if a.started != nil {
		close(a.started)
	}
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return a.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionClassification() *meetings.Classification {
	return &meetings.Classification{
		Added: []meetings.MeetingItem{
			{ItemID: "a1", Content: "export reports as PDF"},
		},
		Conflicts: []meetings.Conflict{
			{
				ItemID: "c1",
				Kind:   meetings.ConflictRefinement,
				MatchedRequirement: meetings.MatchedRequirement{
					ID: "req-1", Content: "p95 under 500ms",
				},
			},
		},
	}
}

func testSession(applier Applier, status meetings.Status) *Session {
	return newSession(context.Background(), &meetings.Result{
		Meeting: meetings.Meeting{
			ID:        uuid.New(),
			ProjectID: uuid.New(),
			Status:    status,
		},
		Classification: sessionClassification(),
	}, applier, discardLogger())
}

func TestSessionApply(t *testing.T) {
	applier := &fakeApplier{}
	session := testSession(applier, meetings.StatusProcessed)

	if err := session.SetDecision("c1", DecisionReplace); err != nil {
		t.Fatal(err)
	}

	outcome, err := session.Apply(context.Background())
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if outcome.Decisions != 2 {
		t.Errorf("decision count: got %d, want 2", outcome.Decisions)
	}
	if applier.calls != 1 {
		t.Errorf("applier calls: got %d, want 1", applier.calls)
	}

	view := session.Snapshot()
	if !view.Applied || view.Status != meetings.StatusApplied {
		t.Errorf("session must be applied: %+v", view)
	}
	if len(view.Resolutions) != 0 {
		t.Error("resolutions must be discarded after a successful apply")
	}
}

func TestSessionApplyRejectsSecondAttempt(t *testing.T) {
	applier := &fakeApplier{}
	session := testSession(applier, meetings.StatusProcessed)
	session.SetDecision("c1", DecisionReplace)

	if _, err := session.Apply(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := session.Apply(context.Background())
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if applier.calls != 1 {
		t.Errorf("second attempt must not reach the backend: %d calls", applier.calls)
	}
}

func TestSessionApplyRejectsConcurrentAttempt(t *testing.T) {
	applier := &fakeApplier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := testSession(applier, meetings.StatusProcessed)
	session.SetDecision("c1", DecisionReplace)

	done := make(chan error, 1)
	go func() {
		_, err := session.Apply(context.Background())
		done <- err
	}()

	<-applier.started
	_, err := session.Apply(context.Background())
	if !errors.Is(err, ErrApplyInFlight) {
		t.Fatalf("expected ErrApplyInFlight, got %v", err)
	}

	close(applier.release)
	if err := <-done; err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if applier.calls != 1 {
		t.Errorf("double submit must issue one request, got %d", applier.calls)
	}
}

func TestSessionApplyRefusesIncompleteResolutions(t *testing.T) {
	applier := &fakeApplier{}
	session := testSession(applier, meetings.StatusProcessed)

	_, err := session.Apply(context.Background())
	if !errors.Is(err, ErrIncompleteResolution) {
		t.Fatalf("expected ErrIncompleteResolution, got %v", err)
	}
	if applier.calls != 0 {
		t.Error("incomplete session must not reach the backend")
	}
}

func TestSessionApplyFailurePreservesState(t *testing.T) {
	applier := &fakeApplier{err: errors.New("backend unavailable")}
	session := testSession(applier, meetings.StatusProcessed)
	session.SetDecision("c1", DecisionMerge)
	session.SetMergedText("c1", "p95 under 200ms for interactive routes")

	_, err := session.Apply(context.Background())
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected ApplyError, got %v", err)
	}

	view := session.Snapshot()
	if view.Applied {
		t.Error("failed apply must not mark the session applied")
	}
	resolution, ok := view.Resolutions["c1"]
	if !ok || resolution.MergedText == "" {
		t.Errorf("resolution state lost after failure: %+v", view.Resolutions)
	}

	// A retry rebuilds the payload from current state, including edits
	// made after the failure.
	applier.err = nil
	session.SetMergedText("c1", "p95 under 150ms for interactive routes")
	if _, err := session.Apply(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	last := applier.payloads[len(applier.payloads)-1]
	found := false
	for _, d := range last {
		if d.ItemID == "c1" {
			found = true
			if d.MergedText != "p95 under 150ms for interactive routes" {
				t.Errorf("retry must submit latest merge text, got %q", d.MergedText)
			}
		}
	}
	if !found {
		t.Error("conflict missing from retry payload")
	}
}

func TestSessionAppliedMeetingIsReadOnly(t *testing.T) {
	applier := &fakeApplier{}
	session := testSession(applier, meetings.StatusApplied)

	if err := session.SetDecision("c1", DecisionReplace); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("set decision: expected ErrAlreadyApplied, got %v", err)
	}
	if err := session.SetMergedText("c1", "text"); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("set merged text: expected ErrAlreadyApplied, got %v", err)
	}
	if _, err := session.AcceptDefaults(); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("accept defaults: expected ErrAlreadyApplied, got %v", err)
	}
	if _, err := session.Apply(context.Background()); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("apply: expected ErrAlreadyApplied, got %v", err)
	}
	if applier.calls != 0 {
		t.Error("read-only session must never reach the backend")
	}
}

func TestSessionRejectsUnknownConflict(t *testing.T) {
	session := testSession(&fakeApplier{}, meetings.StatusProcessed)

	if err := session.SetDecision("nope", DecisionReplace); !errors.Is(err, ErrUnknownConflict) {
		t.Fatalf("expected ErrUnknownConflict, got %v", err)
	}
}

func TestSessionDiscardCancelsOutstandingApply(t *testing.T) {
	applier := &fakeApplier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := testSession(applier, meetings.StatusProcessed)
	session.SetDecision("c1", DecisionReplace)

	done := make(chan error, 1)
	go func() {
		_, err := session.Apply(context.Background())
		done <- err
	}()

	<-applier.started
	session.discard()

	err := <-done
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected ApplyError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
