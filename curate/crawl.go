// Package curate builds the document catalog: it discovers site URLs,
// scrapes key pages for document link titles, optionally enriches
// documents, and files the result into the taxonomy.
package curate

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/fwojciec/chatad"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent scrape and enrichment calls.
const DefaultConcurrency = 5

// linkTitleLabel prefixes descriptions backfilled from link anchor text.
const linkTitleLabel = "ADNI"

// Crawler produces an Inventory from a live site.
type Crawler struct {
	Source  chatad.URLSource
	Scraper chatad.Scraper

	// Enricher, Limiter and Archive are optional.
	Enricher chatad.Enricher
	Limiter  chatad.DomainLimiter
	Archive  chatad.PageArchive

	// Limit caps the number of mapped URLs; zero means DefaultMapLimit.
	Limit       int
	Concurrency int
	RetryDelays []time.Duration

	// OnRetry, if set, is told about each scrape retry.
	OnRetry RetryFunc
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Stage     Stage
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// Stage names the crawl step an event belongs to.
type Stage int

const (
	StageScrape Stage = iota
	StageEnrich
)

func (s Stage) String() string {
	if s == StageEnrich {
		return "enrich"
	}
	return "scrape"
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl discovers every URL under rootURL, scrapes the key pages for
// document links, merges and classifies the URLs, and backfills document
// titles. A discovery error or an empty discovery is fatal and nothing is
// archived. Individual scrape and enrichment failures are reported through
// progress and otherwise ignored.
func (c *Crawler) Crawl(ctx context.Context, rootURL string, progress ProgressFunc) (inv *chatad.Inventory, err error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	limit := c.Limit
	if limit <= 0 {
		limit = chatad.DefaultMapLimit
	}
	mapped, err := c.Source.Discover(ctx, rootURL, limit)
	if err != nil {
		return nil, err
	}
	if len(mapped) == 0 {
		return nil, chatad.Errorf(chatad.ENOTFOUND, "no URLs discovered under %s", rootURL)
	}

	if c.Archive != nil {
		defer func() {
			if err != nil {
				_ = c.Archive.Abort()
			}
		}()
	}

	pages := KeyPages(mapped)
	scraped := c.scrapePages(ctx, pages, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	linked := make([]string, 0)
	for _, r := range scraped {
		if r.err != nil {
			continue
		}
		if c.Archive != nil {
			page := &chatad.ScrapedPage{URL: r.url, Markdown: r.markdown, ScrapedAt: r.at}
			if err := c.Archive.Save(ctx, page); err != nil {
				return nil, err
			}
		}
		found := chatad.ExtractLinkTitles(r.markdown)
		for _, u := range slices.Sorted(maps.Keys(found)) {
			if _, ok := titles[u]; !ok {
				linked = append(linked, u)
			}
		}
		chatad.MergeLinkTitles(titles, found)
	}

	classified := chatad.ClassifyURLs(MergeURLs(mapped, linked))
	chatad.ApplyLinkTitles(classified.Documents, titles, linkTitleLabel)

	if c.Enricher != nil {
		c.enrich(ctx, classified.Documents, progress)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	inv = chatad.NewInventory(classified, rootURL)
	inv.Metadata.EnhancedFromWebsite = true
	for _, doc := range inv.Documents {
		if doc.Enhanced {
			inv.Metadata.EnhancedCount++
		}
	}

	if c.Archive != nil {
		if err := c.Archive.Commit(); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// KeyPages returns the non-document URLs likely to link to documents.
func KeyPages(urls []string) []string {
	var pages []string
	for _, u := range chatad.KeyPageFilter().Apply(urls) {
		if chatad.ClassifyURL(u) == nil {
			pages = append(pages, u)
		}
	}
	return pages
}

// scrapeResult holds the outcome of scraping a single page.
type scrapeResult struct {
	position int
	url      string
	markdown string
	at       time.Time
	err      error
}

// scrapePages scrapes pages concurrently and returns results in input order.
func (c *Crawler) scrapePages(ctx context.Context, pages []string, progress ProgressFunc) []scrapeResult {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	scrape := func(ctx context.Context, url string) (string, error) {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, hostOf(url)); err != nil {
				return "", err
			}
		}
		return c.Scraper.Scrape(ctx, url)
	}

	return fanOut(ctx, c.concurrency(), pages, StageScrape, progress,
		func(ctx context.Context, i int, url string) scrapeResult {
			md, err := ScrapeWithRetry(ctx, url, scrape, c.OnRetry, delays)
			return scrapeResult{position: i, url: url, markdown: md, at: time.Now().UTC(), err: err}
		},
		func(r scrapeResult) (int, string, error) { return r.position, r.url, r.err },
	)
}

// enrichResult holds the outcome of enriching a single document.
type enrichResult struct {
	position   int
	url        string
	enrichment *chatad.Enrichment
	err        error
}

// enrich fills AI metadata on documents that link titles did not cover.
// A failed document keeps enhanced=false.
func (c *Crawler) enrich(ctx context.Context, docs []*chatad.DocumentEntry, progress ProgressFunc) {
	var pending []*chatad.DocumentEntry
	for _, doc := range docs {
		if !doc.Enhanced {
			pending = append(pending, doc)
		}
	}

	results := fanOut(ctx, c.concurrency(), pending, StageEnrich, progress,
		func(ctx context.Context, i int, doc *chatad.DocumentEntry) enrichResult {
			e, err := c.Enricher.Enrich(ctx, doc)
			if err == nil && e.Title == "" && e.Description == "" {
				err = chatad.Errorf(chatad.EUNAVAILABLE, "empty enrichment for %s", doc.URL)
			}
			return enrichResult{position: i, url: doc.URL, enrichment: e, err: err}
		},
		func(r enrichResult) (int, string, error) { return r.position, r.url, r.err },
	)

	for i, r := range results {
		if r.err != nil {
			continue
		}
		pending[i].AITitle = r.enrichment.Title
		pending[i].AIDescription = r.enrichment.Description
		pending[i].Enhanced = true
	}
}

func (c *Crawler) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}

// fanOut runs work over items on an errgroup bounded by limit and
// reassembles the results in input order. Progress callbacks are made from
// the calling goroutine only.
func fanOut[T, R any](
	ctx context.Context,
	limit int,
	items []T,
	stage Stage,
	progress ProgressFunc,
	work func(ctx context.Context, i int, item T) R,
	describe func(R) (position int, url string, err error),
) []R {
	total := len(items)
	progress(ProgressEvent{Type: ProgressStarted, Stage: stage, Total: total})

	resultCh := make(chan R, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	go func() {
		for i, item := range items {
			g.Go(func() error {
				resultCh <- work(gctx, i, item)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed int
	results := make([]R, total)
	for r := range resultCh {
		completed++
		position, url, err := describe(r)
		results[position] = r

		event := ProgressEvent{Type: ProgressCompleted, Stage: stage, Completed: completed, Total: total, URL: url}
		if err != nil {
			event.Type = ProgressFailed
			event.Error = err
		}
		progress(event)
	}

	progress(ProgressEvent{Type: ProgressFinished, Stage: stage, Completed: total, Total: total})
	return results
}
