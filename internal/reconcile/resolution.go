// Package reconcile implements the meeting-to-requirements reconciliation
// core: per-conflict resolution state, the apply coordinator that commits
// decisions exactly once, and the session layer that owns both for the
// lifetime of a reconciliation.
package reconcile

import "strings"

// Decision is the user's choice for one conflicting item.
type Decision string

const (
	DecisionKeepExisting Decision = "keep_existing"
	DecisionReplace      Decision = "replace"
	DecisionMerge        Decision = "merge"
)

// Valid reports whether d is one of the three recognized decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionKeepExisting, DecisionReplace, DecisionMerge:
		return true
	}
	return false
}

// Resolution is the working state for one conflict. MergedText is only
// meaningful when Decision is merge.
type Resolution struct {
	Decision   Decision `json:"decision"`
	MergedText string   `json:"merged_text,omitempty"`
}

// Resolved reports whether the resolution satisfies the completeness
// invariant: a decision exists, and merge decisions carry non-blank text.
func (r Resolution) Resolved() bool {
	if !r.Decision.Valid() {
		return false
	}
	if r.Decision == DecisionMerge {
		return strings.TrimSpace(r.MergedText) != ""
	}
	return true
}
