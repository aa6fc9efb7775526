package timetable

import (
	"context"
	"fmt"

	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/provider"
)

// stubProvider serves canned records for tests.
type stubProvider struct {
	name    string
	kinds   []category.Kind
	records []provider.RawRecord
	err     error

	fetchCalls int
	lastRefs   []category.EntityRef
	lastWindow provider.Window
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Kinds() []category.Kind {
	return s.kinds
}

func (s *stubProvider) FetchEvents(_ context.Context, refs []category.EntityRef, window provider.Window) ([]provider.RawRecord, error) {
	s.fetchCalls++
	s.lastRefs = refs
	s.lastWindow = window
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// stubCatalog resolves from a fixed ref set.
type stubCatalog struct {
	refs []category.EntityRef
}

func (s *stubCatalog) Search(_ context.Context, kind category.Kind, query string, limit int) ([]category.EntityRef, error) {
	var matching []category.EntityRef
	for _, ref := range s.refs {
		if ref.Kind == kind {
			matching = append(matching, ref)
		}
	}
	return category.Rank(matching, query, limit), nil
}

func (s *stubCatalog) Resolve(_ context.Context, kind category.Kind, identity string) (category.EntityRef, error) {
	for _, ref := range s.refs {
		if ref.Kind == kind && ref.Identity == identity {
			return ref, nil
		}
	}
	return category.EntityRef{}, fmt.Errorf("%w: %s %q", category.ErrNotFound, kind, identity)
}
