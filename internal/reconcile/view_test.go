package reconcile_test

import (
	"testing"

	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/internal/reconcile"
)

func TestCategoryViewCounts(t *testing.T) {
	classification := testClassification()
	store := reconcile.NewStore()
	store.SetDecision("c1", reconcile.DecisionReplace)

	view := reconcile.NewCategoryView(classification, store)

	if view.Added != 2 || view.Skipped != 2 || view.Conflicts != 2 {
		t.Errorf("counts: got %d/%d/%d, want 2/2/2", view.Added, view.Skipped, view.Conflicts)
	}
	if view.Resolved != 1 {
		t.Errorf("resolved: got %d, want 1", view.Resolved)
	}
}

func TestCategoryViewFocus(t *testing.T) {
	tests := []struct {
		name           string
		classification meetings.Classification
		want           reconcile.Category
	}{
		{
			name: "conflicts take priority",
			classification: meetings.Classification{
				Added:     []meetings.MeetingItem{{ItemID: "a"}},
				Skipped:   []meetings.SkippedItem{{Item: meetings.MeetingItem{ItemID: "s"}}},
				Conflicts: []meetings.Conflict{{ItemID: "c"}},
			},
			want: reconcile.CategoryConflicts,
		},
		{
			name: "added before skipped",
			classification: meetings.Classification{
				Added:   []meetings.MeetingItem{{ItemID: "a"}},
				Skipped: []meetings.SkippedItem{{Item: meetings.MeetingItem{ItemID: "s"}}},
			},
			want: reconcile.CategoryAdded,
		},
		{
			name: "skipped only",
			classification: meetings.Classification{
				Skipped: []meetings.SkippedItem{{Item: meetings.MeetingItem{ItemID: "s"}}},
			},
			want: reconcile.CategorySkipped,
		},
		{
			name:           "empty classification",
			classification: meetings.Classification{},
			want:           reconcile.CategoryAdded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := reconcile.NewCategoryView(&tt.classification, reconcile.NewStore())
			if view.Focus != tt.want {
				t.Errorf("focus: got %s, want %s", view.Focus, tt.want)
			}
		})
	}
}

func TestCategoryViewProgress(t *testing.T) {
	classification := testClassification()
	store := reconcile.NewStore()

	view := reconcile.NewCategoryView(classification, store)
	if view.Progress() != 0 {
		t.Errorf("progress with nothing resolved: got %v, want 0", view.Progress())
	}

	store.SetDecision("c1", reconcile.DecisionReplace)
	view = reconcile.NewCategoryView(classification, store)
	if view.Progress() != 0.5 {
		t.Errorf("progress halfway: got %v, want 0.5", view.Progress())
	}

	store.SetDecision("c2", reconcile.DecisionKeepExisting)
	view = reconcile.NewCategoryView(classification, store)
	if view.Progress() != 1 {
		t.Errorf("progress complete: got %v, want 1", view.Progress())
	}
}

func TestCategoryViewProgressWithoutConflicts(t *testing.T) {
	view := reconcile.NewCategoryView(&meetings.Classification{
		Added: []meetings.MeetingItem{{ItemID: "a"}},
	}, reconcile.NewStore())

	if view.Progress() != 1 {
		t.Errorf("no conflicts must report full progress, got %v", view.Progress())
	}
}
