package curate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/curate"
	"github.com/fwojciec/chatad/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "https://adni.loni.usc.edu"

var siteMap = []string{
	root + "/",
	root + "/data-samples/adni-data",
	root + "/help-faqs/",
	root + "/docs/ADNI3_MRI_Manual.pdf",
	root + "/adni-publications/paper.pdf",
	root + "/news",
}

const dataSamplesMarkdown = `# Data
See the [ADNI3 MRI Manual](https://adni.loni.usc.edu/docs/ADNI3_MRI_Manual.pdf)
and the [ PET Technical Procedures ](https://adni.loni.usc.edu/docs/pet_tech.pdf).
Also [the news](https://adni.loni.usc.edu/news).`

func staticSource(urls []string) *mock.URLSource {
	return &mock.URLSource{DiscoverFn: func(_ context.Context, _ string, _ int) ([]string, error) {
		return urls, nil
	}}
}

func siteScraper() *mock.Scraper {
	return &mock.Scraper{ScrapeFn: func(_ context.Context, url string) (string, error) {
		if url == root+"/data-samples/adni-data" {
			return dataSamplesMarkdown, nil
		}
		return "", chatad.Errorf(chatad.EUNAVAILABLE, "HTTP 500")
	}}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("merges linked documents and backfills their titles", func(t *testing.T) {
		t.Parallel()

		// Given a site whose data page links two documents
		var limit int
		source := &mock.URLSource{DiscoverFn: func(_ context.Context, _ string, l int) ([]string, error) {
			limit = l
			return siteMap, nil
		}}
		c := &curate.Crawler{Source: source, Scraper: siteScraper(), RetryDelays: []time.Duration{}}

		// When
		inv, err := c.Crawl(context.Background(), root, nil)

		// Then
		require.NoError(t, err)
		assert.Equal(t, chatad.DefaultMapLimit, limit)
		require.Len(t, inv.Documents, 2)

		manual := inv.Documents[0]
		assert.Equal(t, root+"/docs/ADNI3_MRI_Manual.pdf", manual.URL)
		assert.Equal(t, "ADNI3 MRI Manual.pdf", manual.Title)
		assert.Equal(t, "ADNI3 MRI Manual", manual.AITitle)
		assert.Equal(t, "ADNI Document: ADNI3 MRI Manual", manual.AIDescription)
		assert.True(t, manual.Enhanced)

		pet := inv.Documents[1]
		assert.Equal(t, root+"/docs/pet_tech.pdf", pet.URL)
		assert.Equal(t, "PET Technical Procedures", pet.AITitle)

		assert.Len(t, inv.Pages, 4)
		assert.Equal(t, 6, inv.Metadata.TotalLinks)
		assert.Equal(t, 1, inv.Metadata.PublicationsFiltered)
		assert.Equal(t, 2, inv.Metadata.EnhancedCount)
		assert.True(t, inv.Metadata.EnhancedFromWebsite)
		assert.Equal(t, root, inv.Metadata.Source)
	})

	t.Run("discovery failure is fatal", func(t *testing.T) {
		t.Parallel()

		source := &mock.URLSource{DiscoverFn: func(_ context.Context, _ string, _ int) ([]string, error) {
			return nil, chatad.Errorf(chatad.EUNAVAILABLE, "map failed")
		}}
		c := &curate.Crawler{Source: source, Scraper: siteScraper()}

		_, err := c.Crawl(context.Background(), root, nil)

		assert.Equal(t, chatad.EUNAVAILABLE, chatad.ErrorCode(err))
	})

	t.Run("empty discovery is fatal", func(t *testing.T) {
		t.Parallel()

		c := &curate.Crawler{Source: staticSource(nil), Scraper: siteScraper()}

		_, err := c.Crawl(context.Background(), root, nil)

		assert.Equal(t, chatad.ENOTFOUND, chatad.ErrorCode(err))
	})

	t.Run("retries scrapes and rate limits by host", func(t *testing.T) {
		t.Parallel()

		// Given a scraper that fails once per page
		var mu sync.Mutex
		attempts := map[string]int{}
		var hosts []string
		scraper := &mock.Scraper{ScrapeFn: func(_ context.Context, url string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts[url]++
			if attempts[url] == 1 {
				return "", errors.New("transient")
			}
			return "", nil
		}}
		limiter := &mock.DomainLimiter{WaitFn: func(_ context.Context, domain string) error {
			mu.Lock()
			defer mu.Unlock()
			hosts = append(hosts, domain)
			return nil
		}}
		c := &curate.Crawler{
			Source:      staticSource(siteMap),
			Scraper:     scraper,
			Limiter:     limiter,
			RetryDelays: []time.Duration{0},
		}

		// When
		_, err := c.Crawl(context.Background(), root, nil)

		// Then every key page was tried twice, each try rate limited
		require.NoError(t, err)
		assert.Equal(t, map[string]int{
			root + "/data-samples/adni-data": 2,
			root + "/help-faqs/":             2,
		}, attempts)
		assert.Len(t, hosts, 4)
		for _, h := range hosts {
			assert.Equal(t, "adni.loni.usc.edu", h)
		}
	})

	t.Run("reports progress in order of completion", func(t *testing.T) {
		t.Parallel()

		c := &curate.Crawler{Source: staticSource(siteMap), Scraper: siteScraper(), RetryDelays: []time.Duration{}, Concurrency: 1}
		var events []curate.ProgressEvent

		_, err := c.Crawl(context.Background(), root, func(e curate.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, curate.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, curate.ProgressCompleted, events[1].Type)
		assert.Equal(t, root+"/data-samples/adni-data", events[1].URL)
		assert.Equal(t, curate.ProgressFailed, events[2].Type)
		assert.Error(t, events[2].Error)
		assert.Equal(t, curate.ProgressFinished, events[3].Type)
		for _, e := range events {
			assert.Equal(t, curate.StageScrape, e.Stage)
		}
	})

	t.Run("enriches documents without link titles", func(t *testing.T) {
		t.Parallel()

		// Given two unlinked documents, one of which cannot be enriched
		urls := []string{root + "/docs/a.pdf", root + "/docs/b.pdf", root + "/docs/c.pdf"}
		scraper := &mock.Scraper{ScrapeFn: func(_ context.Context, _ string) (string, error) { return "", nil }}
		var mu sync.Mutex
		var asked []string
		enricher := &mock.Enricher{EnrichFn: func(_ context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error) {
			mu.Lock()
			asked = append(asked, doc.URL)
			mu.Unlock()
			switch doc.URL {
			case root + "/docs/b.pdf":
				return nil, chatad.Errorf(chatad.EUNAVAILABLE, "rate limited")
			case root + "/docs/c.pdf":
				return &chatad.Enrichment{}, nil
			}
			return &chatad.Enrichment{Title: "Procedures Manual", Description: "How sites run visits."}, nil
		}}
		c := &curate.Crawler{Source: staticSource(urls), Scraper: scraper, Enricher: enricher}

		// When
		inv, err := c.Crawl(context.Background(), root, nil)

		// Then
		require.NoError(t, err)
		assert.ElementsMatch(t, urls, asked)
		assert.True(t, inv.Documents[0].Enhanced)
		assert.Equal(t, "Procedures Manual", inv.Documents[0].AITitle)
		assert.Equal(t, "How sites run visits.", inv.Documents[0].AIDescription)
		assert.False(t, inv.Documents[1].Enhanced)
		assert.False(t, inv.Documents[2].Enhanced)
		assert.Equal(t, 1, inv.Metadata.EnhancedCount)
	})

	t.Run("does not enrich documents titled from links", func(t *testing.T) {
		t.Parallel()

		enricher := &mock.Enricher{EnrichFn: func(_ context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error) {
			t.Errorf("unexpected enrichment of %s", doc.URL)
			return nil, errors.New("unexpected")
		}}
		c := &curate.Crawler{Source: staticSource(siteMap), Scraper: siteScraper(), Enricher: enricher, RetryDelays: []time.Duration{}}

		inv, err := c.Crawl(context.Background(), root, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, inv.Metadata.EnhancedCount)
	})

	t.Run("archives scraped pages and commits", func(t *testing.T) {
		t.Parallel()

		var saved []string
		var committed, aborted bool
		archive := &mock.PageArchive{
			SaveFn: func(_ context.Context, page *chatad.ScrapedPage) error {
				saved = append(saved, page.URL)
				assert.False(t, page.ScrapedAt.IsZero())
				return nil
			},
			CommitFn: func() error { committed = true; return nil },
			AbortFn:  func() error { aborted = true; return nil },
		}
		c := &curate.Crawler{Source: staticSource(siteMap), Scraper: siteScraper(), Archive: archive, RetryDelays: []time.Duration{}}

		_, err := c.Crawl(context.Background(), root, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{root + "/data-samples/adni-data"}, saved)
		assert.True(t, committed)
		assert.False(t, aborted)
	})

	t.Run("archive failure aborts the crawl", func(t *testing.T) {
		t.Parallel()

		var aborted bool
		archive := &mock.PageArchive{
			SaveFn:   func(_ context.Context, _ *chatad.ScrapedPage) error { return errors.New("disk full") },
			CommitFn: func() error { t.Error("unexpected commit"); return nil },
			AbortFn:  func() error { aborted = true; return nil },
		}
		c := &curate.Crawler{Source: staticSource(siteMap), Scraper: siteScraper(), Archive: archive, RetryDelays: []time.Duration{}}

		_, err := c.Crawl(context.Background(), root, nil)

		assert.EqualError(t, err, "disk full")
		assert.True(t, aborted)
	})
}

func TestKeyPages(t *testing.T) {
	t.Parallel()

	got := curate.KeyPages([]string{
		root + "/about/",
		root + "/about/governance.pdf",
		root + "/methods/documentation",
		root + "/news",
		root + "/about/adni-publications",
	})

	assert.Equal(t, []string{root + "/about/", root + "/methods/documentation"}, got)
}
