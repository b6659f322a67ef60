package mock

import (
	"context"

	"github.com/fwojciec/chatad"
)

var (
	_ chatad.ContentCache    = (*ContentCache)(nil)
	_ chatad.Downloader      = (*Downloader)(nil)
	_ chatad.TextExtractor   = (*TextExtractor)(nil)
	_ chatad.DocumentFetcher = (*DocumentFetcher)(nil)
)

// ContentCache is a mock implementation of chatad.ContentCache.
type ContentCache struct {
	GetFn   func(ctx context.Context, key string) (string, bool, error)
	PutFn   func(ctx context.Context, key, text string) error
	ClearFn func(ctx context.Context) (int, error)
}

func (c *ContentCache) Get(ctx context.Context, key string) (string, bool, error) {
	return c.GetFn(ctx, key)
}

func (c *ContentCache) Put(ctx context.Context, key, text string) error {
	return c.PutFn(ctx, key, text)
}

func (c *ContentCache) Clear(ctx context.Context) (int, error) {
	return c.ClearFn(ctx)
}

// Downloader is a mock implementation of chatad.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}

// TextExtractor is a mock implementation of chatad.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(data []byte, maxPages int) (*chatad.Extraction, error)
}

func (e *TextExtractor) ExtractText(data []byte, maxPages int) (*chatad.Extraction, error) {
	return e.ExtractTextFn(data, maxPages)
}

// DocumentFetcher is a mock implementation of chatad.DocumentFetcher.
type DocumentFetcher struct {
	FetchDocumentFn func(ctx context.Context, url string) (*chatad.FetchResult, error)
}

func (f *DocumentFetcher) FetchDocument(ctx context.Context, url string) (*chatad.FetchResult, error) {
	return f.FetchDocumentFn(ctx, url)
}
