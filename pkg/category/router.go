package category

import (
	"context"
	"fmt"
)

// Router dispatches catalog calls to the provider responsible for a kind.
// Adding a provider means registering it for its kinds, not modifying
// any consumer.
type Router struct {
	catalogs map[Kind]Catalog
}

func NewRouter() *Router {
	return &Router{catalogs: make(map[Kind]Catalog)}
}

// Register makes catalog the authority for the given kinds.
func (r *Router) Register(catalog Catalog, kinds ...Kind) {
	for _, kind := range kinds {
		r.catalogs[kind] = catalog
	}
}

func (r *Router) Search(ctx context.Context, kind Kind, query string, limit int) ([]EntityRef, error) {
	catalog, ok := r.catalogs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return catalog.Search(ctx, kind, query, limit)
}

func (r *Router) Resolve(ctx context.Context, kind Kind, identity string) (EntityRef, error) {
	catalog, ok := r.catalogs[kind]
	if !ok {
		return EntityRef{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return catalog.Resolve(ctx, kind, identity)
}
