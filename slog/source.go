// Package slog decorates chatad services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/chatad"
)

// Ensure the decorators implement their interfaces.
var (
	_ chatad.URLSource = (*LoggingURLSource)(nil)
	_ chatad.Scraper   = (*LoggingScraper)(nil)
	_ chatad.Enricher  = (*LoggingEnricher)(nil)
)

// LoggingURLSource wraps a URLSource with logging.
type LoggingURLSource struct {
	next   chatad.URLSource
	logger *slog.Logger
}

// NewLoggingURLSource creates a new LoggingURLSource.
func NewLoggingURLSource(next chatad.URLSource, logger *slog.Logger) *LoggingURLSource {
	return &LoggingURLSource{next: next, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingURLSource) Discover(ctx context.Context, rootURL string, limit int) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discover",
			"url", rootURL,
			"limit", limit,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx, rootURL, limit)
}

// LoggingScraper wraps a Scraper with logging.
type LoggingScraper struct {
	next   chatad.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next chatad.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the operation.
func (s *LoggingScraper) Scrape(ctx context.Context, url string) (markdown string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scrape",
			"url", url,
			"bytes", len(markdown),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}

// LoggingEnricher wraps an Enricher with logging.
type LoggingEnricher struct {
	next   chatad.Enricher
	logger *slog.Logger
}

// NewLoggingEnricher creates a new LoggingEnricher.
func NewLoggingEnricher(next chatad.Enricher, logger *slog.Logger) *LoggingEnricher {
	return &LoggingEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs the operation.
func (e *LoggingEnricher) Enrich(ctx context.Context, doc *chatad.DocumentEntry) (out *chatad.Enrichment, err error) {
	defer func(begin time.Time) {
		var title string
		if out != nil {
			title = out.Title
		}
		e.logger.Info("enrich",
			"url", doc.URL,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Enrich(ctx, doc)
}
