package reconcile

import (
	"github.com/planloom/minutes/internal/meetings"
)

// BuildDecisions flattens a classification and its resolutions into the
// backend-facing decision list: every item across all three partitions
// appears exactly once. It is called fresh on every apply attempt so a
// retry always submits the latest resolution state, never a cached payload.
func BuildDecisions(classification *meetings.Classification, store *Store) ([]meetings.ApplyDecision, error) {
	decisions := make([]meetings.ApplyDecision, 0, classification.Total())

	for _, item := range classification.Added {
		decisions = append(decisions, meetings.ApplyDecision{
			ItemID:   item.ItemID,
			Decision: meetings.DecisionAdded,
		})
	}

	for _, skipped := range classification.Skipped {
		decision := meetings.DecisionSkippedDuplicate
		if skipped.ResolveKind() == meetings.SkipSemantic {
			decision = meetings.DecisionSkippedSemantic
		}

		applied := meetings.ApplyDecision{
			ItemID:   skipped.Item.ItemID,
			Decision: decision,
		}
		if skipped.MatchedRequirement != nil {
			applied.MatchedRequirementID = skipped.MatchedRequirement.ID
		}

		decisions = append(decisions, applied)
	}

	for _, conflict := range classification.Conflicts {
		resolution, ok := store.Resolution(conflict.ItemID)
		if !ok || !resolution.Resolved() {
			return nil, ErrIncompleteResolution
		}

		applied := meetings.ApplyDecision{
			ItemID:               conflict.ItemID,
			Decision:             string(resolution.Decision),
			MatchedRequirementID: conflict.MatchedRequirement.ID,
		}
		if resolution.Decision == DecisionMerge {
			applied.MergedText = resolution.MergedText
		}

		decisions = append(decisions, applied)
	}

	return decisions, nil
}
