package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStore(t *testing.T) {
	t.Parallel()

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		store := fs.NewCatalogStore(filepath.Join(t.TempDir(), "results", "adni.json"))

		_, err := store.LoadCatalog(context.Background())

		assert.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))
	})

	t.Run("saves and loads a catalog keeping tree order", func(t *testing.T) {
		t.Parallel()

		// Given
		path := filepath.Join(t.TempDir(), "results", "adni.json")
		store := fs.NewCatalogStore(path)
		inv := chatad.NewInventory(chatad.ClassifyURLs([]string{
			"https://a.org/Consent_Form.pdf",
			"https://a.org/ADNI3_MRI_Analysis_Manual.pdf",
		}), "https://a.org")
		cat := chatad.BuildCatalog(inv, chatad.DefaultTaxonomy())

		// When
		require.NoError(t, store.SaveCatalog(context.Background(), cat))
		got, err := store.LoadCatalog(context.Background())

		// Then
		require.NoError(t, err)
		require.Len(t, got.DocumentsByCategory, 2)
		assert.Equal(t, "MRI Protocols", got.DocumentsByCategory[0].Name)
		assert.Equal(t, "Consent Forms", got.DocumentsByCategory[1].Name)
		assert.Equal(t, cat.Metadata, got.Metadata)
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewCatalogStore(filepath.Join(dir, "adni.json"))

		require.NoError(t, store.SaveCatalog(context.Background(), &chatad.Catalog{}))
		require.NoError(t, store.SaveCatalog(context.Background(), &chatad.Catalog{}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "adni.json", entries[0].Name())
	})

	t.Run("invalid JSON is reported", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "adni.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		_, err := fs.NewCatalogStore(path).LoadCatalog(context.Background())

		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})
}

func TestInventoryStore(t *testing.T) {
	t.Parallel()

	// Given
	store := fs.NewInventoryStore(filepath.Join(t.TempDir(), "data", "adni_raw.json"))
	_, err := store.LoadInventory(context.Background())
	require.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))

	inv := chatad.NewInventory(chatad.ClassifyURLs([]string{
		"https://a.org/about",
		"https://a.org/x.pdf",
		"https://a.org/publications/y.pdf",
	}), "https://a.org")

	// When
	require.NoError(t, store.SaveInventory(context.Background(), inv))
	got, err := store.LoadInventory(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, inv, got)
}
