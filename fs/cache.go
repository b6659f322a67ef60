package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/chatad"
)

// Ensure FileCache implements chatad.ContentCache at compile time.
var _ chatad.ContentCache = (*FileCache)(nil)

const cacheExt = ".txt"

// FileCache stores extracted document text as one file per key.
type FileCache struct {
	dir string
}

// NewFileCache returns a cache rooted at dir. The directory is created on
// first write.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

func (c *FileCache) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", chatad.Errorf(chatad.EINVALID, "invalid cache key %q", key)
	}
	return filepath.Join(c.dir, key+cacheExt), nil
}

func (c *FileCache) Get(_ context.Context, key string) (string, bool, error) {
	path, err := c.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (c *FileCache) Put(_ context.Context, key, text string) error {
	path, err := c.path(key)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(text))
}

func (c *FileCache) Clear(_ context.Context) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var n int
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != cacheExt {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
