package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a selectable timetable dimension.
type Kind string

const (
	KindCourse   Kind = "course"
	KindModule   Kind = "module"
	KindLocation Kind = "location"
	KindClub     Kind = "club"
	KindSociety  Kind = "society"
)

// Kinds lists every selectable kind in a fixed order.
var Kinds = []Kind{KindCourse, KindModule, KindLocation, KindClub, KindSociety}

var (
	ErrUnknownKind = errors.New("unknown category kind")

	// ErrNotFound means an identity is unknown upstream. Callers drop the
	// identity from the active query and continue.
	ErrNotFound = errors.New("category item not found")

	// ErrUpstreamUnavailable means the directory provider failed entirely.
	ErrUpstreamUnavailable = errors.New("upstream directory unavailable")
)

func KindFromString(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// EntityRef is an identity and display-name pair for one category item.
// Identities are provider-issued, immutable and case-sensitive; uniqueness
// is per kind.
type EntityRef struct {
	Kind        Kind   `json:"kind"`
	Identity    string `json:"identity"`
	DisplayName string `json:"name"`
}

// Catalog resolves human-searchable names to stable identities.
type Catalog interface {
	// Search returns items matching query, ranked by match quality then
	// name. An empty query returns up to limit items unfiltered.
	Search(ctx context.Context, kind Kind, query string, limit int) ([]EntityRef, error)
	// Resolve returns the item for a known identity, or ErrNotFound.
	Resolve(ctx context.Context, kind Kind, identity string) (EntityRef, error)
}
