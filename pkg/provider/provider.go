package provider

import (
	"context"
	"errors"
	"time"

	"github.com/campussync/campussync/pkg/category"
)

// ErrUpstreamUnavailable means a provider failed entirely for a fetch.
var ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

// RawRecord is the provider-neutral form of one scheduled session as
// returned by an upstream adapter. It is fetched per query and never
// persisted beyond the raw-response cache.
type RawRecord struct {
	// Provider is the name of the adapter that produced this record.
	Provider string
	// SourceID is the provider-issued key for the underlying session.
	SourceID string

	Name        string
	Description string

	// Start and End are already converted to UTC by the adapter.
	Start time.Time
	End   time.Time

	Location   string
	Staff      string
	ModuleName string
	EventType  string

	// Weeks holds week-of-term numbers this record recurs on. Nil means
	// the record is a single concrete occurrence.
	Weeks []int

	LastModified time.Time
	// FetchedAt is when this record was observed, used as the merge
	// tie-break for inconsistent duplicates.
	FetchedAt time.Time

	// EntityRefs are the catalog items this record was fetched for.
	EntityRefs []category.EntityRef
}

// Provider fetches raw scheduling records for entities of its kinds.
// One adapter per upstream service; adding an upstream means adding an
// adapter, not changing any consumer.
type Provider interface {
	Name() string
	Kinds() []category.Kind
	FetchEvents(ctx context.Context, refs []category.EntityRef, window Window) ([]RawRecord, error)
}

// Warning marks a non-fatal upstream problem attached to an otherwise
// successful response.
type Warning struct {
	Provider string `json:"provider,omitempty"`
	Message  string `json:"message"`
}
