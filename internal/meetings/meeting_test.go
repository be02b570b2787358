package meetings_test

import (
	"errors"
	"testing"

	"github.com/planloom/minutes/internal/meetings"
)

func TestStatusReady(t *testing.T) {
	tests := []struct {
		status meetings.Status
		ready  bool
	}{
		{meetings.StatusProcessing, false},
		{meetings.StatusProcessed, true},
		{meetings.StatusApplied, true},
		{meetings.StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Ready(); got != tt.ready {
				t.Errorf("Ready() = %v, want %v", got, tt.ready)
			}
		})
	}
}

func TestClassificationValidate(t *testing.T) {
	tests := []struct {
		name           string
		classification meetings.Classification
		valid          bool
	}{
		{
			name: "disjoint partitions",
			classification: meetings.Classification{
				Added: []meetings.MeetingItem{{ItemID: "a"}},
				Skipped: []meetings.SkippedItem{
					{Item: meetings.MeetingItem{ItemID: "b"}, Reason: "duplicate"},
				},
				Conflicts: []meetings.Conflict{
					{ItemID: "c", Kind: meetings.ConflictRefinement},
				},
			},
			valid: true,
		},
		{
			name:           "empty classification",
			classification: meetings.Classification{},
			valid:          true,
		},
		{
			name: "item in two partitions",
			classification: meetings.Classification{
				Added: []meetings.MeetingItem{{ItemID: "a"}},
				Conflicts: []meetings.Conflict{
					{ItemID: "a", Kind: meetings.ConflictContradiction},
				},
			},
			valid: false,
		},
		{
			name: "repeated within one partition",
			classification: meetings.Classification{
				Added: []meetings.MeetingItem{{ItemID: "a"}, {ItemID: "a"}},
			},
			valid: false,
		},
		{
			name: "missing item id",
			classification: meetings.Classification{
				Added: []meetings.MeetingItem{{Content: "no id"}},
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.classification.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, meetings.ErrInvalidClassification) {
				t.Errorf("expected ErrInvalidClassification, got %v", err)
			}
		})
	}
}

func TestSkippedItemResolveKind(t *testing.T) {
	tests := []struct {
		name string
		item meetings.SkippedItem
		want meetings.SkipKind
	}{
		{
			name: "structural duplicate tag",
			item: meetings.SkippedItem{Kind: meetings.SkipDuplicate, Reason: "semantic duplicate"},
			want: meetings.SkipDuplicate,
		},
		{
			name: "structural semantic tag",
			item: meetings.SkippedItem{Kind: meetings.SkipSemantic, Reason: "exact copy"},
			want: meetings.SkipSemantic,
		},
		{
			name: "reason fallback semantic",
			item: meetings.SkippedItem{Reason: "Semantic match against REQ-4"},
			want: meetings.SkipSemantic,
		},
		{
			name: "reason fallback duplicate",
			item: meetings.SkippedItem{Reason: "exact duplicate of REQ-2"},
			want: meetings.SkipDuplicate,
		},
		{
			name: "no information defaults to duplicate",
			item: meetings.SkippedItem{},
			want: meetings.SkipDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.ResolveKind(); got != tt.want {
				t.Errorf("ResolveKind() = %s, want %s", got, tt.want)
			}
		})
	}
}
