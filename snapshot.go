package chatad

import (
	"context"
	"sync/atomic"
)

// CatalogSource returns the catalog currently being served.
type CatalogSource interface {
	Catalog(ctx context.Context) (*Catalog, error)
}

// Snapshot serves an immutable catalog loaded from a CatalogStore. The
// catalog is loaded on first use; Refresh swaps in a newly loaded one.
// Readers never observe a partially loaded catalog.
type Snapshot struct {
	store   CatalogStore
	current atomic.Pointer[Catalog]
}

// NewSnapshot returns a snapshot backed by store.
func NewSnapshot(store CatalogStore) *Snapshot {
	return &Snapshot{store: store}
}

// Catalog returns the current catalog, loading it if none is held.
// A load failure is returned to this caller only; a later call retries.
func (s *Snapshot) Catalog(ctx context.Context) (*Catalog, error) {
	if c := s.current.Load(); c != nil {
		return c, nil
	}
	return s.Refresh(ctx)
}

// Refresh reloads the catalog from the store and publishes it. On failure
// the previous catalog, if any, stays in place.
func (s *Snapshot) Refresh(ctx context.Context) (*Catalog, error) {
	c, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(c)
	return c, nil
}

// Set publishes c directly, e.g. right after a curation run.
func (s *Snapshot) Set(c *Catalog) {
	s.current.Store(c)
}
