package reconcile

import (
	"github.com/planloom/minutes/internal/meetings"
)

// Store holds the working set of resolutions for a session's conflicts,
// keyed by item ID. Resolutions live only here until apply succeeds; the
// session serializes access, so Store itself is not safe for concurrent use.
type Store struct {
	resolutions map[string]Resolution
}

// NewStore creates an empty resolution store.
func NewStore() *Store {
	return &Store{
		resolutions: make(map[string]Resolution),
	}
}

// SetDecision overwrites any prior decision for the item. Switching away
// from merge discards stored merged text, so an item can never carry a
// stale merge after changing decisions; switching back to merge starts
// from empty text.
func (s *Store) SetDecision(itemID string, decision Decision) error {
	if !decision.Valid() {
		return ErrInvalidDecision
	}

	resolution := s.resolutions[itemID]
	resolution.Decision = decision
	if decision != DecisionMerge {
		resolution.MergedText = ""
	}
	s.resolutions[itemID] = resolution

	return nil
}

// SetMergedText stores merge text for the item. It does not implicitly set
// the decision; text without a merge decision leaves the item unresolved.
func (s *Store) SetMergedText(itemID, text string) {
	resolution := s.resolutions[itemID]
	resolution.MergedText = text
	s.resolutions[itemID] = resolution
}

// Resolution returns the stored resolution for the item, if any.
func (s *Store) Resolution(itemID string) (Resolution, bool) {
	resolution, ok := s.resolutions[itemID]
	return resolution, ok
}

// AcceptAIDefaults applies the suggested decision to every conflict that
// has no decision yet: replace for refinements, keep_existing for
// contradictions. Conflicts with an unrecognized kind have no default and
// are left untouched. Decisions already made by hand persist, so repeated
// invocation is idempotent. Returns the number of conflicts defaulted.
func (s *Store) AcceptAIDefaults(conflicts []meetings.Conflict) int {
	applied := 0

	for _, conflict := range conflicts {
		if existing, ok := s.resolutions[conflict.ItemID]; ok && existing.Decision != "" {
			continue
		}

		switch conflict.Kind {
		case meetings.ConflictRefinement:
			s.resolutions[conflict.ItemID] = Resolution{Decision: DecisionReplace}
		case meetings.ConflictContradiction:
			s.resolutions[conflict.ItemID] = Resolution{Decision: DecisionKeepExisting}
		default:
			continue
		}

		applied++
	}

	return applied
}

// IsComplete reports whether every conflict in the list has a resolution
// satisfying the completeness invariant. This predicate gates apply.
func (s *Store) IsComplete(conflicts []meetings.Conflict) bool {
	return s.ResolvedCount(conflicts) == len(conflicts)
}

// ResolvedCount returns the number of conflicts currently resolved.
func (s *Store) ResolvedCount(conflicts []meetings.Conflict) int {
	count := 0
	for _, conflict := range conflicts {
		if resolution, ok := s.resolutions[conflict.ItemID]; ok && resolution.Resolved() {
			count++
		}
	}
	return count
}

// Snapshot returns a copy of the resolution map for read-only use.
func (s *Store) Snapshot() map[string]Resolution {
	snapshot := make(map[string]Resolution, len(s.resolutions))
	for id, resolution := range s.resolutions {
		snapshot[id] = resolution
	}
	return snapshot
}

// Reset discards all resolutions. Called once apply succeeds.
func (s *Store) Reset() {
	s.resolutions = make(map[string]Resolution)
}
