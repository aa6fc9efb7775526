package timetable

import (
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/event"
)

// Merge deduplicates expanded occurrences by identity. The same session
// often arrives through several query branches, for example once via its
// course and once via its module; the merged occurrence is attributed to
// every contributing entity.
//
// When duplicates disagree on descriptive fields the occurrence with the
// latest FetchedAt wins, ties broken by latest LastModified. The rule is
// deterministic so repeated queries merge identically.
func Merge(events []event.CanonicalEvent) []event.CanonicalEvent {
	merged := make([]event.CanonicalEvent, 0, len(events))
	index := make(map[string]int, len(events))

	for _, ev := range events {
		at, seen := index[ev.Identity]
		if !seen {
			index[ev.Identity] = len(merged)
			merged = append(merged, ev)
			continue
		}

		existing := merged[at]
		entities := unionEntities(existing.AssociatedEntities, ev.AssociatedEntities)
		if newerRecord(ev, existing) {
			merged[at] = ev
		}
		merged[at].AssociatedEntities = entities
	}

	event.SortStable(merged)
	return merged
}

func newerRecord(candidate, existing event.CanonicalEvent) bool {
	if !candidate.FetchedAt.Equal(existing.FetchedAt) {
		return candidate.FetchedAt.After(existing.FetchedAt)
	}
	return candidate.LastModified.After(existing.LastModified)
}

func unionEntities(a, b []category.EntityRef) []category.EntityRef {
	union := make([]category.EntityRef, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, ref := range append(append([]category.EntityRef{}, a...), b...) {
		key := string(ref.Kind) + ":" + ref.Identity
		if seen[key] {
			continue
		}
		seen[key] = true
		union = append(union, ref)
	}
	return union
}
