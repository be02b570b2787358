package reconcile_test

import (
	"errors"
	"testing"

	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/internal/reconcile"
)

func conflictSet() []meetings.Conflict {
	return []meetings.Conflict{
		{
			ItemID: "c1",
			Kind:   meetings.ConflictRefinement,
			MatchedRequirement: meetings.MatchedRequirement{
				ID: "req-1", Content: "p95 under 500ms",
			},
		},
		{
			ItemID: "c2",
			Kind:   meetings.ConflictContradiction,
			MatchedRequirement: meetings.MatchedRequirement{
				ID: "req-2", Content: "sessions expire after 24h",
			},
		},
		{
			ItemID: "c3",
			Kind:   meetings.ConflictRefinement,
			MatchedRequirement: meetings.MatchedRequirement{
				ID: "req-3", Content: "export supports CSV",
			},
		},
	}
}

func TestStoreSetDecision(t *testing.T) {
	store := reconcile.NewStore()

	if err := store.SetDecision("c1", reconcile.DecisionReplace); err != nil {
		t.Fatalf("set decision: %v", err)
	}

	resolution, ok := store.Resolution("c1")
	if !ok {
		t.Fatal("expected a stored resolution")
	}
	if resolution.Decision != reconcile.DecisionReplace {
		t.Errorf("decision: got %s, want replace", resolution.Decision)
	}
}

func TestStoreRejectsInvalidDecision(t *testing.T) {
	store := reconcile.NewStore()

	err := store.SetDecision("c1", "overwrite")
	if !errors.Is(err, reconcile.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
	if _, ok := store.Resolution("c1"); ok {
		t.Error("rejected decision must not be stored")
	}
}

func TestStoreSwitchingAwayFromMergeClearsText(t *testing.T) {
	store := reconcile.NewStore()

	if err := store.SetDecision("c1", reconcile.DecisionMerge); err != nil {
		t.Fatal(err)
	}
	store.SetMergedText("c1", "merged requirement text")

	if err := store.SetDecision("c1", reconcile.DecisionKeepExisting); err != nil {
		t.Fatal(err)
	}

	resolution, _ := store.Resolution("c1")
	if resolution.MergedText != "" {
		t.Errorf("merged text must be cleared, got %q", resolution.MergedText)
	}

	// Switching back to merge starts from empty text again.
	if err := store.SetDecision("c1", reconcile.DecisionMerge); err != nil {
		t.Fatal(err)
	}
	resolution, _ = store.Resolution("c1")
	if resolution.MergedText != "" {
		t.Errorf("returning to merge must not restore text, got %q", resolution.MergedText)
	}
}

func TestStoreCompleteness(t *testing.T) {
	conflicts := conflictSet()
	store := reconcile.NewStore()

	if store.IsComplete(conflicts) {
		t.Error("empty store must not be complete")
	}

	store.SetDecision("c1", reconcile.DecisionReplace)
	store.SetDecision("c2", reconcile.DecisionKeepExisting)
	if store.IsComplete(conflicts) {
		t.Error("two of three resolved must not be complete")
	}
	if got := store.ResolvedCount(conflicts); got != 2 {
		t.Errorf("resolved count: got %d, want 2", got)
	}

	// A merge decision without text does not count as resolved.
	store.SetDecision("c3", reconcile.DecisionMerge)
	if store.IsComplete(conflicts) {
		t.Error("merge without text must not complete the set")
	}

	// Whitespace-only text is still unresolved.
	store.SetMergedText("c3", "   \t ")
	if store.IsComplete(conflicts) {
		t.Error("blank merge text must not complete the set")
	}

	store.SetMergedText("c3", "export supports CSV and XLSX")
	if !store.IsComplete(conflicts) {
		t.Error("all conflicts resolved, expected complete")
	}
	if got := store.ResolvedCount(conflicts); got != 3 {
		t.Errorf("resolved count: got %d, want 3", got)
	}
}

func TestStoreCompletenessWithNoConflicts(t *testing.T) {
	store := reconcile.NewStore()
	if !store.IsComplete(nil) {
		t.Error("a session without conflicts is trivially complete")
	}
}

func TestStoreAcceptAIDefaults(t *testing.T) {
	conflicts := conflictSet()
	store := reconcile.NewStore()

	applied := store.AcceptAIDefaults(conflicts)
	if applied != 3 {
		t.Errorf("defaults applied: got %d, want 3", applied)
	}

	// Refinements default to replace, contradictions to keep_existing.
	r1, _ := store.Resolution("c1")
	if r1.Decision != reconcile.DecisionReplace {
		t.Errorf("refinement default: got %s, want replace", r1.Decision)
	}
	r2, _ := store.Resolution("c2")
	if r2.Decision != reconcile.DecisionKeepExisting {
		t.Errorf("contradiction default: got %s, want keep_existing", r2.Decision)
	}

	if !store.IsComplete(conflicts) {
		t.Error("defaults must resolve every conflict")
	}
}

func TestStoreAcceptAIDefaultsPreservesManualDecisions(t *testing.T) {
	conflicts := conflictSet()
	store := reconcile.NewStore()

	store.SetDecision("c1", reconcile.DecisionMerge)
	store.SetMergedText("c1", "p95 under 200ms for interactive routes")

	applied := store.AcceptAIDefaults(conflicts)
	if applied != 2 {
		t.Errorf("defaults applied: got %d, want 2", applied)
	}

	r1, _ := store.Resolution("c1")
	if r1.Decision != reconcile.DecisionMerge || r1.MergedText == "" {
		t.Errorf("manual resolution overwritten: %+v", r1)
	}
}

func TestStoreAcceptAIDefaultsSkipsUnrecognizedKinds(t *testing.T) {
	conflicts := append(conflictSet(), meetings.Conflict{
		ItemID: "c4",
		Kind:   "overlap",
		MatchedRequirement: meetings.MatchedRequirement{
			ID: "req-4", Content: "reports include charts",
		},
	})
	store := reconcile.NewStore()

	applied := store.AcceptAIDefaults(conflicts)
	if applied != 3 {
		t.Errorf("defaults applied: got %d, want 3", applied)
	}
	if _, ok := store.Resolution("c4"); ok {
		t.Error("a conflict with no recognized kind has no default")
	}
	if store.IsComplete(conflicts) {
		t.Error("the undefaulted conflict must keep the set incomplete")
	}
}

func TestStoreAcceptAIDefaultsIdempotent(t *testing.T) {
	conflicts := conflictSet()
	store := reconcile.NewStore()

	store.AcceptAIDefaults(conflicts)

	// A manual change between invocations must survive the second pass.
	store.SetDecision("c1", reconcile.DecisionKeepExisting)

	if applied := store.AcceptAIDefaults(conflicts); applied != 0 {
		t.Errorf("second invocation applied %d defaults, want 0", applied)
	}

	r1, _ := store.Resolution("c1")
	if r1.Decision != reconcile.DecisionKeepExisting {
		t.Errorf("manual decision reverted: got %s", r1.Decision)
	}
}

func TestStoreReset(t *testing.T) {
	conflicts := conflictSet()
	store := reconcile.NewStore()
	store.AcceptAIDefaults(conflicts)

	store.Reset()
	if store.ResolvedCount(conflicts) != 0 {
		t.Error("reset must discard all resolutions")
	}
}
