package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/chatad"
)

// Ensure Scraper implements chatad.Scraper at compile time.
var _ chatad.Scraper = (*Scraper)(nil)

// Scraper fetches a page directly and converts it to markdown with
// absolute links. It is the fallback when no mapping service is configured.
type Scraper struct {
	client    *http.Client
	maxBytes  int64
	resolver  chatad.LinkResolver
	converter chatad.Converter
}

// NewScraper creates a Scraper that rewrites links with resolver and renders
// markdown with converter.
func NewScraper(resolver chatad.LinkResolver, converter chatad.Converter, opts ...Option) *Scraper {
	o := newOptions(opts)
	return &Scraper{
		client:    o.client,
		maxBytes:  o.maxBytes,
		resolver:  resolver,
		converter: converter,
	}
}

// Scrape returns the page at url as markdown.
func (s *Scraper) Scrape(ctx context.Context, url string) (string, error) {
	body, err := get(ctx, s.client, url, s.maxBytes)
	if err != nil {
		return "", err
	}

	html, err := s.resolver.ResolveLinks(string(body), url)
	if err != nil {
		return "", err
	}
	return s.converter.Convert(html)
}
