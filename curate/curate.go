package curate

import (
	"context"

	"github.com/fwojciec/chatad"
)

// Curator turns a stored inventory into a published catalog.
type Curator struct {
	Inventories chatad.InventoryStore
	Catalogs    chatad.CatalogStore

	// Runs is optional; when set every published catalog is recorded.
	Runs chatad.RunService

	// Taxonomy defaults to chatad.DefaultTaxonomy.
	Taxonomy *chatad.Taxonomy
}

// Curate loads the stored inventory and publishes its catalog.
func (c *Curator) Curate(ctx context.Context) (*chatad.Catalog, *chatad.Run, error) {
	inv, err := c.Inventories.LoadInventory(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c.Publish(ctx, inv)
}

// Build stores inv as the current inventory and publishes its catalog.
func (c *Curator) Build(ctx context.Context, inv *chatad.Inventory) (*chatad.Catalog, *chatad.Run, error) {
	if err := c.Inventories.SaveInventory(ctx, inv); err != nil {
		return nil, nil, err
	}
	return c.Publish(ctx, inv)
}

// Publish builds the catalog for inv and saves it. Curating the same
// inventory twice produces identical catalogs.
func (c *Curator) Publish(ctx context.Context, inv *chatad.Inventory) (*chatad.Catalog, *chatad.Run, error) {
	tax := c.Taxonomy
	if tax == nil {
		tax = chatad.DefaultTaxonomy()
	}

	cat := chatad.BuildCatalog(inv, tax)
	if err := c.Catalogs.SaveCatalog(ctx, cat); err != nil {
		return nil, nil, err
	}

	if c.Runs == nil {
		return cat, nil, nil
	}
	run := chatad.NewRun(cat)
	if err := c.Runs.CreateRun(ctx, run); err != nil {
		return cat, nil, err
	}
	return cat, run, nil
}
