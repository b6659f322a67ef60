package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/chatad"
)

var (
	_ chatad.Downloader      = (*LoggingDownloader)(nil)
	_ chatad.ContentCache    = (*LoggingContentCache)(nil)
	_ chatad.DocumentFetcher = (*LoggingDocumentFetcher)(nil)
)

// LoggingDownloader wraps a Downloader with logging.
type LoggingDownloader struct {
	next   chatad.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next chatad.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Info("download",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}

// LoggingContentCache wraps a ContentCache with debug logging.
type LoggingContentCache struct {
	next   chatad.ContentCache
	logger *slog.Logger
}

// NewLoggingContentCache creates a new LoggingContentCache.
func NewLoggingContentCache(next chatad.ContentCache, logger *slog.Logger) *LoggingContentCache {
	return &LoggingContentCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs hits and misses.
func (c *LoggingContentCache) Get(ctx context.Context, key string) (text string, ok bool, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache get",
			"key", key,
			"hit", ok,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Get(ctx, key)
}

// Put delegates to the wrapped cache and logs the write.
func (c *LoggingContentCache) Put(ctx context.Context, key, text string) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"key", key,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Put(ctx, key, text)
}

// Clear delegates to the wrapped cache and logs how many entries went.
func (c *LoggingContentCache) Clear(ctx context.Context) (n int, err error) {
	defer func() {
		c.logger.Info("cache clear", "removed", n, "err", err)
	}()
	return c.next.Clear(ctx)
}

// LoggingDocumentFetcher wraps a DocumentFetcher with logging.
type LoggingDocumentFetcher struct {
	next   chatad.DocumentFetcher
	logger *slog.Logger
}

// NewLoggingDocumentFetcher creates a new LoggingDocumentFetcher.
func NewLoggingDocumentFetcher(next chatad.DocumentFetcher, logger *slog.Logger) *LoggingDocumentFetcher {
	return &LoggingDocumentFetcher{next: next, logger: logger}
}

// FetchDocument delegates to the wrapped fetcher and logs the operation.
func (f *LoggingDocumentFetcher) FetchDocument(ctx context.Context, url string) (res *chatad.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin), "err", err}
		if res != nil {
			attrs = append(attrs, "cached", res.Cached, "chars", len(res.Content))
		}
		f.logger.Info("fetch document", attrs...)
	}(time.Now())
	return f.next.FetchDocument(ctx, url)
}
