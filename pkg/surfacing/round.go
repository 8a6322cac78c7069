package surfacing

import (
	"time"
)

// Round is the fixed set of items offered to a consumer by one selection.
// Detection is scoped to a round: items appended after the round was built
// are not eligible for matching even if their content overlaps the output.
type Round struct {
	startedAt  time.Time
	categories []string
	items      map[string][]CandidateItem
}

func newRound(startedAt time.Time) *Round {
	return &Round{
		startedAt: startedAt,
		items:     make(map[string][]CandidateItem),
	}
}

func (r *Round) add(category string, items []CandidateItem) {
	if _, seen := r.items[category]; !seen {
		r.categories = append(r.categories, category)
	}
	r.items[category] = append(r.items[category], items...)
}

// StartedAt returns when the round's selection was taken.
func (r *Round) StartedAt() time.Time {
	return r.startedAt
}

// Category returns the items selected for one category, newest first.
func (r *Round) Category(name string) []CandidateItem {
	return r.items[name]
}

// Items returns every selected item across categories, in selection order.
func (r *Round) Items() []CandidateItem {
	var all []CandidateItem
	for _, category := range r.categories {
		all = append(all, r.items[category]...)
	}
	return all
}

// Len returns the total number of selected items.
func (r *Round) Len() int {
	n := 0
	for _, items := range r.items {
		n += len(items)
	}
	return n
}
