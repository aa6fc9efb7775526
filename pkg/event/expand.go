package event

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/pkg/term"
)

// Expand turns a week-pattern template into concrete occurrences, one per
// in-term week, and assigns every occurrence its stable identity. Events
// without a week pattern become a single occurrence with index 0.
//
// Durations are measured in UTC, so an occurrence keeps the template's
// exact UTC length even when the term crosses a daylight-saving
// transition; wall-clock times may shift by the DST offset.
//
// Week numbers outside the term are upstream data variance, not a request
// fault: they are dropped with a log warning, never surfaced as an error.
func Expand(ev CanonicalEvent, cal term.Calendar) []CanonicalEvent {
	if len(ev.Weeks) == 0 {
		ev.Identity = Identity(ev.Provider, ev.SourceID, 0)
		return []CanonicalEvent{ev}
	}

	baseWeek := cal.WeekOf(ev.Start)
	if baseWeek == 0 {
		log.Warnf("Event %s/%s starts outside the term; treating as a single occurrence",
			ev.Provider, ev.SourceID)
		ev.Identity = Identity(ev.Provider, ev.SourceID, 0)
		return []CanonicalEvent{ev}
	}

	weeks := make([]int, 0, len(ev.Weeks))
	seen := make(map[int]bool)
	for _, week := range ev.Weeks {
		if !cal.Contains(week) {
			log.Warnf("Event %s/%s has out-of-term week %d (term has %d weeks); dropping",
				ev.Provider, ev.SourceID, week, cal.Weeks())
			continue
		}
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
	}
	sort.Ints(weeks)

	offset := ev.Start.Sub(cal.WeekStart(baseWeek))
	duration := ev.End.Sub(ev.Start)

	occurrences := make([]CanonicalEvent, 0, len(weeks))
	for _, week := range weeks {
		occ := ev
		occ.Start = cal.WeekStart(week).Add(offset)
		occ.End = occ.Start.Add(duration)
		// The week number keys the occurrence, so identities survive
		// upstream edits to the week list.
		occ.Identity = Identity(ev.Provider, ev.SourceID, week)
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

// ExpandAll expands every template and returns the occurrences sorted by
// start, ties broken by identity, the output order feeds rely on.
func ExpandAll(events []CanonicalEvent, cal term.Calendar) []CanonicalEvent {
	var expanded []CanonicalEvent
	for _, ev := range events {
		expanded = append(expanded, Expand(ev, cal)...)
	}
	SortStable(expanded)
	return expanded
}

// SortStable orders events by start ascending, ties broken by identity,
// so repeated identical queries serialize identically.
func SortStable(events []CanonicalEvent) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Identity < events[j].Identity
	})
}
