package fs

import (
	"context"

	"github.com/fwojciec/chatad"
)

// Ensure stores implement the chatad interfaces at compile time.
var (
	_ chatad.CatalogStore   = (*CatalogStore)(nil)
	_ chatad.InventoryStore = (*InventoryStore)(nil)
)

// CatalogStore keeps the published catalog in a single JSON file.
type CatalogStore struct {
	path string
}

// NewCatalogStore returns a store backed by the file at path.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

func (s *CatalogStore) LoadCatalog(_ context.Context) (*chatad.Catalog, error) {
	var c chatad.Catalog
	if err := readJSON(s.path, &c, "catalog"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CatalogStore) SaveCatalog(_ context.Context, catalog *chatad.Catalog) error {
	return writeJSON(s.path, catalog)
}

// InventoryStore keeps the raw crawl inventory in a single JSON file.
type InventoryStore struct {
	path string
}

// NewInventoryStore returns a store backed by the file at path.
func NewInventoryStore(path string) *InventoryStore {
	return &InventoryStore{path: path}
}

func (s *InventoryStore) LoadInventory(_ context.Context) (*chatad.Inventory, error) {
	var inv chatad.Inventory
	if err := readJSON(s.path, &inv, "inventory"); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *InventoryStore) SaveInventory(_ context.Context, inv *chatad.Inventory) error {
	return writeJSON(s.path, inv)
}
