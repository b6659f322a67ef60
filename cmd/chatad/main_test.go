package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/chatad"
	main "github.com/fwojciec/chatad/cmd/chatad"
	"github.com/fwojciec/chatad/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "https://adni.loni.usc.edu"

// workspace holds the file paths one end-to-end run works against.
type workspace struct {
	inventory string
	catalog   string
	db        string
	cacheDir  string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	return &workspace{
		inventory: filepath.Join(dir, "data", "adni_raw.json"),
		catalog:   filepath.Join(dir, "results", "adni.json"),
		db:        filepath.Join(dir, "data", "chatad.db"),
		cacheDir:  filepath.Join(dir, "data", "pdf_cache"),
	}
}

func (w *workspace) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	flags := []string{
		"--inventory", w.inventory,
		"--catalog", w.catalog,
		"--db", w.db,
		"--cache-dir", w.cacheDir,
		"--redis-url=",
	}
	var out, errOut bytes.Buffer
	m := main.NewMain()
	err = m.Run(context.Background(), append(flags, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (w *workspace) saveInventory(t *testing.T) {
	t.Helper()

	inv := chatad.NewInventory(chatad.ClassifyURLs([]string{
		root + "/docs/ADNI3_MRI_Analysis_Manual.pdf",
		root + "/docs/Amyloid_PET_Acquisition.pdf",
		root + "/docs/ADNI4_Consent_Form.docx",
		root + "/docs/random.xlsx",
		root + "/about/",
	}), root)
	require.NoError(t, fs.NewInventoryStore(w.inventory).SaveInventory(context.Background(), inv))
}

func TestMain_Run_CurateSearchHistory(t *testing.T) {
	t.Parallel()

	// Given
	w := newWorkspace(t)
	w.saveInventory(t)

	// When
	stdout, _, err := w.run(t, "curate")

	// Then
	require.NoError(t, err)
	assert.Contains(t, stdout, "of 4 documents")
	assert.Contains(t, stdout, "Recorded run")
	assert.FileExists(t, w.catalog)

	stdout, _, err = w.run(t, "search", "mri", "manual")
	require.NoError(t, err)
	assert.Contains(t, stdout, root+"/docs/ADNI3_MRI_Analysis_Manual.pdf")
	assert.Contains(t, stdout, "MRI Protocols / ADNI3")

	stdout, _, err = w.run(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MRI Protocols (1 documents)")

	stdout, _, err = w.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, root)
	assert.Contains(t, stdout, "documents=4")
}

func TestMain_Run_CurateIsIdempotent(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)
	w.saveInventory(t)

	_, _, err := w.run(t, "curate")
	require.NoError(t, err)
	first, err := os.ReadFile(w.catalog)
	require.NoError(t, err)

	_, _, err = w.run(t, "curate")
	require.NoError(t, err)
	second, err := os.ReadFile(w.catalog)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestMain_Run_CurateWithoutInventory(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)

	_, stderr, err := w.run(t, "curate")

	assert.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))
	assert.Contains(t, stderr, "chatad crawl")
	assert.NoFileExists(t, w.catalog)
}

func TestMain_Run_SearchWithoutCatalog(t *testing.T) {
	t.Parallel()

	w := newWorkspace(t)

	_, stderr, err := w.run(t, "search", "mri")

	assert.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))
	assert.Contains(t, stderr, "CHATAD_CATALOG")
}

func TestMain_Run_CacheClear(t *testing.T) {
	t.Parallel()

	// Given
	w := newWorkspace(t)
	cache := fs.NewFileCache(w.cacheDir)
	require.NoError(t, cache.Put(context.Background(), chatad.CacheKey(root+"/a.pdf"), "a"))
	require.NoError(t, cache.Put(context.Background(), chatad.CacheKey(root+"/b.pdf"), "b"))

	// When
	stdout, _, err := w.run(t, "cache", "clear")

	// Then
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 2 cached documents")
	_, ok, err := cache.Get(context.Background(), chatad.CacheKey(root+"/a.pdf"))
	require.NoError(t, err)
	assert.False(t, ok)
}
