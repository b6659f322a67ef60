package chatad

import (
	"context"
	"regexp"
	"time"
)

// DefaultRootURL is the consortium website crawled by default.
const DefaultRootURL = "https://adni.loni.usc.edu"

// DefaultMapLimit bounds the number of URLs requested from a mapping service.
const DefaultMapLimit = 5000

// URLSource discovers every URL on a site.
// Implementations hide mapping-service vs sitemap discovery.
type URLSource interface {
	// Discover returns site URLs in discovery order, at most limit of them
	// when limit is positive.
	Discover(ctx context.Context, rootURL string, limit int) ([]string, error)
}

// Scraper retrieves a page rendered as markdown with absolute links.
type Scraper interface {
	Scrape(ctx context.Context, url string) (markdown string, err error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// LinkResolver rewrites the links of an HTML page to absolute URLs.
type LinkResolver interface {
	ResolveLinks(html, pageURL string) (string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// Apply returns the URLs that pass the filter, in input order.
func (f *URLFilter) Apply(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if f.Match(u) {
			out = append(out, u)
		}
	}
	return out
}

// KeyPageFilter selects the site pages whose links are scraped for
// human-readable document titles. Publication pages never qualify.
func KeyPageFilter() *URLFilter {
	return &URLFilter{
		Include: []*regexp.Regexp{
			regexp.MustCompile(`(?i)documentation|help-faqs|data-samples|governance|about|methods`),
		},
		Exclude: []*regexp.Regexp{
			regexp.MustCompile(`(?i)publication|adni-publications|/wp-content/uploads/papers/`),
		},
	}
}

// Enrichment is a generated title and description for a document.
type Enrichment struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Enricher generates descriptive metadata for a document.
type Enricher interface {
	Enrich(ctx context.Context, doc *DocumentEntry) (*Enrichment, error)
}

// ScrapedPage is a key page captured during curation.
type ScrapedPage struct {
	URL       string
	Markdown  string
	ScrapedAt time.Time
}

// PageArchive persists the key pages scraped by a curation run.
// Save stages a page; Commit publishes every staged page at once;
// Abort discards them.
type PageArchive interface {
	Save(ctx context.Context, page *ScrapedPage) error
	Commit() error
	Abort() error
}
