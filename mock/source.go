package mock

import (
	"context"

	"github.com/fwojciec/chatad"
)

var (
	_ chatad.URLSource     = (*URLSource)(nil)
	_ chatad.Scraper       = (*Scraper)(nil)
	_ chatad.Converter     = (*Converter)(nil)
	_ chatad.LinkResolver  = (*LinkResolver)(nil)
	_ chatad.DomainLimiter = (*DomainLimiter)(nil)
	_ chatad.Enricher      = (*Enricher)(nil)
)

// URLSource is a mock implementation of chatad.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, rootURL string, limit int) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, rootURL string, limit int) ([]string, error) {
	return s.DiscoverFn(ctx, rootURL, limit)
}

// Scraper is a mock implementation of chatad.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string) (string, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	return s.ScrapeFn(ctx, url)
}

// Converter is a mock implementation of chatad.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// LinkResolver is a mock implementation of chatad.LinkResolver.
type LinkResolver struct {
	ResolveLinksFn func(html, pageURL string) (string, error)
}

func (r *LinkResolver) ResolveLinks(html, pageURL string) (string, error) {
	return r.ResolveLinksFn(html, pageURL)
}

// DomainLimiter is a mock implementation of chatad.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// Enricher is a mock implementation of chatad.Enricher.
type Enricher struct {
	EnrichFn func(ctx context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error)
}

func (e *Enricher) Enrich(ctx context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error) {
	return e.EnrichFn(ctx, doc)
}

var _ chatad.PageArchive = (*PageArchive)(nil)

// PageArchive is a mock implementation of chatad.PageArchive.
type PageArchive struct {
	SaveFn   func(ctx context.Context, page *chatad.ScrapedPage) error
	CommitFn func() error
	AbortFn  func() error
}

func (a *PageArchive) Save(ctx context.Context, page *chatad.ScrapedPage) error {
	return a.SaveFn(ctx, page)
}

func (a *PageArchive) Commit() error {
	return a.CommitFn()
}

func (a *PageArchive) Abort() error {
	return a.AbortFn()
}
