package curate_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/curate"
	"github.com/fwojciec/chatad/fs"
	"github.com/fwojciec/chatad/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() *chatad.Inventory {
	c := chatad.ClassifyURLs([]string{
		root + "/docs/ADNI3_MRI_Analysis_Manual.pdf",
		root + "/docs/Amyloid_PET_Acquisition.pdf",
		root + "/docs/ADNI4_Consent_Form.docx",
		root + "/docs/Steering_Committee_Meeting_Notes.pdf?x=meeting_notes",
		root + "/docs/random.xlsx",
		root + "/about/",
	})
	return chatad.NewInventory(c, root)
}

func TestCurator_Curate(t *testing.T) {
	t.Parallel()

	t.Run("publishes the catalog and records the run", func(t *testing.T) {
		t.Parallel()

		// Given
		var saved *chatad.Catalog
		var recorded *chatad.Run
		curator := &curate.Curator{
			Inventories: &mock.InventoryStore{LoadInventoryFn: func(_ context.Context) (*chatad.Inventory, error) {
				return testInventory(), nil
			}},
			Catalogs: &mock.CatalogStore{SaveCatalogFn: func(_ context.Context, c *chatad.Catalog) error {
				saved = c
				return nil
			}},
			Runs: &mock.RunService{CreateRunFn: func(_ context.Context, r *chatad.Run) error {
				r.ID = "run-1"
				recorded = r
				return nil
			}},
		}

		// When
		cat, run, err := curator.Curate(context.Background())

		// Then
		require.NoError(t, err)
		assert.Same(t, saved, cat)
		assert.Same(t, recorded, run)
		assert.Equal(t, 5, run.Documents)
		assert.Equal(t, 1, run.Pages)
		assert.Equal(t, cat.Metadata.OrganizedDocuments, run.Organized)
		assert.Equal(t, root, run.Source)
	})

	t.Run("missing inventory writes nothing", func(t *testing.T) {
		t.Parallel()

		curator := &curate.Curator{
			Inventories: &mock.InventoryStore{LoadInventoryFn: func(_ context.Context) (*chatad.Inventory, error) {
				return nil, chatad.Errorf(chatad.ENOTFOUND, "inventory not found")
			}},
			Catalogs: &mock.CatalogStore{SaveCatalogFn: func(_ context.Context, _ *chatad.Catalog) error {
				t.Error("unexpected save")
				return nil
			}},
		}

		_, _, err := curator.Curate(context.Background())

		assert.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))
	})

	t.Run("is idempotent on disk", func(t *testing.T) {
		t.Parallel()

		// Given file stores
		dir := t.TempDir()
		invStore := fs.NewInventoryStore(filepath.Join(dir, "data", "adni_raw.json"))
		catPath := filepath.Join(dir, "results", "adni.json")
		catStore := fs.NewCatalogStore(catPath)
		require.NoError(t, invStore.SaveInventory(context.Background(), testInventory()))
		curator := &curate.Curator{Inventories: invStore, Catalogs: catStore}

		// When curated twice
		_, _, err := curator.Curate(context.Background())
		require.NoError(t, err)
		first, err := catStore.LoadCatalog(context.Background())
		require.NoError(t, err)
		_, _, err = curator.Curate(context.Background())
		require.NoError(t, err)
		second, err := catStore.LoadCatalog(context.Background())
		require.NoError(t, err)

		// Then both encodings match
		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b))
		assert.Equal(t, string(a), string(b))
	})
}

func TestCurator_Build(t *testing.T) {
	t.Parallel()

	// Given
	var stored *chatad.Inventory
	curator := &curate.Curator{
		Inventories: &mock.InventoryStore{SaveInventoryFn: func(_ context.Context, inv *chatad.Inventory) error {
			stored = inv
			return nil
		}},
		Catalogs: &mock.CatalogStore{SaveCatalogFn: func(_ context.Context, _ *chatad.Catalog) error { return nil }},
	}
	inv := testInventory()

	// When
	cat, run, err := curator.Build(context.Background(), inv)

	// Then
	require.NoError(t, err)
	assert.Same(t, inv, stored)
	assert.Nil(t, run)
	assert.Equal(t, 5, cat.Metadata.TotalDocuments)
	assert.Equal(t, chatad.StructureVersion, cat.Metadata.StructureVersion)
}
