// Package meetings implements the meeting domain for Minutes.
// It provides the types returned by the extraction backend and the
// readiness polling system that obtains classification results for
// asynchronously processed meetings.
package meetings

import (
	"strings"

	"github.com/google/uuid"
)

// Status is the processing state reported by the extraction backend.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusApplied    Status = "applied"
	StatusFailed     Status = "failed"
)

// Ready reports whether classification results exist for the meeting.
// An applied meeting still exposes its classification read-only.
func (s Status) Ready() bool {
	return s == StatusProcessed || s == StatusApplied
}

// Meeting is the status record returned by GET /meetings/{id}.
type Meeting struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Status    Status    `json:"status"`
}

// Section is the requirement category assigned to an extracted item.
type Section string

const (
	SectionFunctional    Section = "functional"
	SectionNonFunctional Section = "non_functional"
	SectionUserStory     Section = "user_story"
	SectionConstraint    Section = "constraint"
	SectionOpenQuestion  Section = "open_question"
)

// MeetingItem is one requirement-like statement extracted from a meeting.
// Items are immutable once returned by classification.
type MeetingItem struct {
	ItemID      string  `json:"item_id"`
	Section     Section `json:"section"`
	Content     string  `json:"content"`
	SourceQuote string  `json:"source_quote,omitempty"`
}

// MatchedRequirement identifies the existing requirement a skipped or
// conflicting item collides with.
type MatchedRequirement struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// SkipKind distinguishes exact duplicates from semantic matches.
type SkipKind string

const (
	SkipDuplicate SkipKind = "duplicate"
	SkipSemantic  SkipKind = "semantic"
)

// SkippedItem is a meeting item judged to be a duplicate of an existing
// requirement. Kind is the structural tag supplied by the backend; Reason
// is the human-readable explanation shown alongside it.
type SkippedItem struct {
	Item               MeetingItem         `json:"item"`
	Reason             string              `json:"reason"`
	Kind               SkipKind            `json:"kind,omitempty"`
	MatchedRequirement *MatchedRequirement `json:"matched_requirement,omitempty"`
}

// ResolveKind returns the structural skip kind, falling back to inspecting
// the reason text for backends that predate the kind field.
func (s SkippedItem) ResolveKind() SkipKind {
	if s.Kind == SkipDuplicate || s.Kind == SkipSemantic {
		return s.Kind
	}
	if strings.Contains(strings.ToLower(s.Reason), "semantic") {
		return SkipSemantic
	}
	return SkipDuplicate
}

// ConflictKind tags how a conflicting item relates to its matched requirement.
type ConflictKind string

const (
	ConflictRefinement    ConflictKind = "refinement"
	ConflictContradiction ConflictKind = "contradiction"
)

// Conflict is a meeting item that overlaps an existing requirement without
// being a clean duplicate. Every conflict has exactly one matched
// requirement; conflicts are never auto-resolved.
type Conflict struct {
	ItemID             string             `json:"item_id"`
	Item               MeetingItem        `json:"item"`
	Kind               ConflictKind       `json:"classification"`
	MatchedRequirement MatchedRequirement `json:"matched_requirement"`
}

// Classification is the three-way partition of a meeting's extracted items
// against the project's existing requirements. It is immutable for the
// remainder of a reconciliation session.
type Classification struct {
	Added     []MeetingItem `json:"added"`
	Skipped   []SkippedItem `json:"skipped"`
	Conflicts []Conflict    `json:"conflicts"`
}

// Total returns the number of items across all three partitions.
func (c *Classification) Total() int {
	return len(c.Added) + len(c.Skipped) + len(c.Conflicts)
}

// Validate checks the partition invariant: every item appears exactly once
// across added, skipped, and conflicts.
func (c *Classification) Validate() error {
	seen := make(map[string]struct{}, c.Total())

	check := func(id string) error {
		if id == "" {
			return ErrInvalidClassification
		}
		if _, ok := seen[id]; ok {
			return ErrInvalidClassification
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, item := range c.Added {
		if err := check(item.ItemID); err != nil {
			return err
		}
	}
	for _, skipped := range c.Skipped {
		if err := check(skipped.Item.ItemID); err != nil {
			return err
		}
	}
	for _, conflict := range c.Conflicts {
		if err := check(conflict.ItemID); err != nil {
			return err
		}
	}

	return nil
}

// ApplyDecision is the flattened, backend-facing record for one item.
// The full list across all three partitions is the sole payload committed
// to the requirement store via POST /meetings/{id}/resolve.
type ApplyDecision struct {
	ItemID               string `json:"item_id"`
	Decision             string `json:"decision"`
	MatchedRequirementID string `json:"matched_requirement_id,omitempty"`
	MergedText           string `json:"merged_text,omitempty"`
}

// Decision values for non-conflict partitions. Conflict decisions are
// supplied by the resolution layer.
const (
	DecisionAdded            = "added"
	DecisionSkippedDuplicate = "skipped_duplicate"
	DecisionSkippedSemantic  = "skipped_semantic"
)
