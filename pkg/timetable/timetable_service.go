// Package timetable orchestrates one query end to end: resolve the
// selection against the catalog, fetch raw records from every relevant
// provider in parallel, then normalize, expand, merge and sort.
package timetable

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/event"
	"github.com/campussync/campussync/pkg/provider"
	"github.com/campussync/campussync/pkg/term"
)

// Selection is the set of requested identities per kind. Missing kinds
// and empty identity lists are equivalent.
type Selection map[category.Kind][]string

// Empty reports whether no identity is selected at all.
func (s Selection) Empty() bool {
	for _, identities := range s {
		if len(identities) > 0 {
			return false
		}
	}
	return true
}

// Result is one answered query: the merged occurrence set in stable
// order plus any non-fatal upstream warnings.
type Result struct {
	Events   []event.CanonicalEvent
	Warnings []provider.Warning
}

type Service struct {
	catalog   category.Catalog
	providers []provider.Provider
	cal       term.Calendar
}

func NewService(catalog category.Catalog, providers []provider.Provider, cal term.Calendar) *Service {
	return &Service{catalog: catalog, providers: providers, cal: cal}
}

// Query answers one timetable query. Failures local to a single record
// or a single provider are contained: unknown identities are dropped,
// malformed records are skipped and counted, and a failed provider
// becomes a warning as long as another branch succeeded. Only an invalid
// window or total upstream unavailability fail the query.
func (s *Service) Query(ctx context.Context, selection Selection, window provider.Window) (Result, error) {
	if err := window.Validate(); err != nil {
		return Result{}, err
	}
	if selection.Empty() {
		return Result{Events: []event.CanonicalEvent{}}, nil
	}

	branches := s.partition(ctx, selection)
	if len(branches) == 0 {
		return Result{Events: []event.CanonicalEvent{}}, nil
	}

	// Each branch writes only its own slot; the group join is the only
	// synchronization point.
	records := make([][]provider.RawRecord, len(branches))
	failures := make([]error, len(branches))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		group.Go(func() error {
			fetched, err := branch.provider.FetchEvents(groupCtx, branch.refs, window)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Errorf("Provider %s failed: %v", branch.provider.Name(), err)
				failures[i] = err
				return nil
			}
			records[i] = fetched
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	var warnings []provider.Warning
	succeeded := 0
	for i, branch := range branches {
		if failures[i] != nil {
			warnings = append(warnings, provider.Warning{
				Provider: branch.provider.Name(),
				Message:  fmt.Sprintf("upstream fetch failed: %v", failures[i]),
			})
			continue
		}
		succeeded++
	}
	if succeeded == 0 {
		return Result{}, fmt.Errorf("%w: every provider branch failed", provider.ErrUpstreamUnavailable)
	}

	var templates []event.CanonicalEvent
	malformed := 0
	for _, fetched := range records {
		for _, record := range fetched {
			ev, err := event.Normalize(record)
			if err != nil {
				malformed++
				log.Warnf("Skipping record %s/%s: %v", record.Provider, record.SourceID, err)
				continue
			}
			templates = append(templates, ev)
		}
	}
	if malformed > 0 {
		log.Warnf("Skipped %d malformed upstream records", malformed)
	}

	occurrences := event.ExpandAll(templates, s.cal)
	occurrences = filterWindow(occurrences, window)
	merged := Merge(occurrences)

	return Result{Events: merged, Warnings: warnings}, nil
}

type branch struct {
	provider provider.Provider
	refs     []category.EntityRef
}

// partition resolves every selected identity and groups the resolved
// refs by the provider serving their kind. Unknown identities are
// dropped with a warning, never fatal.
func (s *Service) partition(ctx context.Context, selection Selection) []branch {
	var branches []branch
	for _, p := range s.providers {
		var refs []category.EntityRef
		for _, kind := range p.Kinds() {
			for _, identity := range selection[kind] {
				ref, err := s.catalog.Resolve(ctx, kind, identity)
				if err != nil {
					if errors.Is(err, category.ErrNotFound) {
						log.Warnf("Dropping unknown %s identity %q", kind, identity)
						continue
					}
					log.Warnf("Failed to resolve %s identity %q, passing through: %v", kind, identity, err)
					ref = category.EntityRef{Kind: kind, Identity: identity}
				}
				refs = append(refs, ref)
			}
		}
		if len(refs) > 0 {
			branches = append(branches, branch{provider: p, refs: refs})
		}
	}
	return branches
}

// filterWindow keeps occurrences overlapping the half-open window.
// Expansion is window-agnostic, so recurring templates produce the whole
// term and the query trims it here.
func filterWindow(events []event.CanonicalEvent, window provider.Window) []event.CanonicalEvent {
	kept := events[:0]
	for _, ev := range events {
		if ev.End.After(window.Start) && ev.Start.Before(window.End) {
			kept = append(kept, ev)
		}
	}
	return kept
}
