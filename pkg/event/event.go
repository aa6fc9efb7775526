// Package event defines the canonical event model and the transforms
// from raw provider records into identity-stable occurrences.
package event

import (
	"time"

	"github.com/campussync/campussync/pkg/category"
)

// CanonicalEvent is the engine's normalized unit. Before expansion it may
// describe a week-pattern template (Weeks set, Identity empty); after
// expansion it is a single concrete occurrence with a stable Identity.
type CanonicalEvent struct {
	// Identity is a deterministic function of Provider, SourceID and the
	// occurrence index. It is assigned during expansion and is stable for
	// the same upstream session across repeated fetches.
	Identity string

	Provider string
	SourceID string

	// Start and End are absolute UTC instants. Rendering in another zone
	// happens only at serialization.
	Start time.Time
	End   time.Time

	// AssociatedEntities are the catalog items this event matched against.
	// Merging unions them across query branches.
	AssociatedEntities []category.EntityRef

	// Name is the raw provider title, kept verbatim as the fallback when
	// parsing fails.
	Name        string
	Description string

	// ParsedNames holds the structured breakdown of Name. Empty when no
	// pattern matched; that is expected, not an error.
	ParsedNames []ParsedName
	GroupName   string

	Locations  []Location
	Staff      string
	ModuleName string
	EventType  string

	// Weeks is the week-of-term pattern this template recurs on. After
	// expansion it is retained on each occurrence for display only.
	Weeks []int

	LastModified time.Time
	FetchedAt    time.Time

	// Display holds derived human-readable strings, computed once.
	Display Display
}

// Display is the cached human-readable rendering of an event.
type Display struct {
	Summary      string `json:"summary"`
	SummaryLong  string `json:"summary_long"`
	Location     string `json:"location"`
	LocationLong string `json:"location_long"`
	Description  string `json:"description"`
}
