package mock

import (
	"context"

	"github.com/fwojciec/chatad"
)

var (
	_ chatad.CatalogStore   = (*CatalogStore)(nil)
	_ chatad.InventoryStore = (*InventoryStore)(nil)
	_ chatad.CatalogSource  = (*CatalogSource)(nil)
)

// CatalogStore is a mock implementation of chatad.CatalogStore.
type CatalogStore struct {
	LoadCatalogFn func(ctx context.Context) (*chatad.Catalog, error)
	SaveCatalogFn func(ctx context.Context, catalog *chatad.Catalog) error
}

func (s *CatalogStore) LoadCatalog(ctx context.Context) (*chatad.Catalog, error) {
	return s.LoadCatalogFn(ctx)
}

func (s *CatalogStore) SaveCatalog(ctx context.Context, catalog *chatad.Catalog) error {
	return s.SaveCatalogFn(ctx, catalog)
}

// InventoryStore is a mock implementation of chatad.InventoryStore.
type InventoryStore struct {
	LoadInventoryFn func(ctx context.Context) (*chatad.Inventory, error)
	SaveInventoryFn func(ctx context.Context, inv *chatad.Inventory) error
}

func (s *InventoryStore) LoadInventory(ctx context.Context) (*chatad.Inventory, error) {
	return s.LoadInventoryFn(ctx)
}

func (s *InventoryStore) SaveInventory(ctx context.Context, inv *chatad.Inventory) error {
	return s.SaveInventoryFn(ctx, inv)
}

// CatalogSource is a mock implementation of chatad.CatalogSource.
type CatalogSource struct {
	CatalogFn func(ctx context.Context) (*chatad.Catalog, error)
}

func (s *CatalogSource) Catalog(ctx context.Context) (*chatad.Catalog, error) {
	return s.CatalogFn(ctx)
}
