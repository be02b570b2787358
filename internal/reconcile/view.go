package reconcile

import (
	"github.com/planloom/minutes/internal/meetings"
)

// Category identifies one of the three classification partitions in the
// wizard's bulk view.
type Category string

const (
	CategoryConflicts Category = "conflicts"
	CategoryAdded     Category = "added"
	CategorySkipped   Category = "skipped"
)

// CategoryView is the presentation contract: partition counts, conflict
// resolution progress, and the category the wizard should focus first.
type CategoryView struct {
	Added     int      `json:"added"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Resolved  int      `json:"resolved"`
	Focus     Category `json:"focus"`
}

// NewCategoryView derives the view from the current classification and
// resolution state. Focus is the first non-empty category in priority
// order conflicts > added > skipped, because conflicts block progress;
// a fully empty classification focuses added.
func NewCategoryView(classification *meetings.Classification, store *Store) CategoryView {
	view := CategoryView{
		Added:     len(classification.Added),
		Skipped:   len(classification.Skipped),
		Conflicts: len(classification.Conflicts),
		Resolved:  store.ResolvedCount(classification.Conflicts),
	}

	switch {
	case view.Conflicts > 0:
		view.Focus = CategoryConflicts
	case view.Added > 0:
		view.Focus = CategoryAdded
	case view.Skipped > 0:
		view.Focus = CategorySkipped
	default:
		view.Focus = CategoryAdded
	}

	return view
}

// Progress returns the resolved/total ratio for conflicts. A classification
// with no conflicts reports full progress.
func (v CategoryView) Progress() float64 {
	if v.Conflicts == 0 {
		return 1
	}
	return float64(v.Resolved) / float64(v.Conflicts)
}
