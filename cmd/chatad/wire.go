package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/content"
	"github.com/fwojciec/chatad/curate"
	"github.com/fwojciec/chatad/firecrawl"
	"github.com/fwojciec/chatad/fs"
	"github.com/fwojciec/chatad/gemini"
	"github.com/fwojciec/chatad/goquery"
	"github.com/fwojciec/chatad/htmltomarkdown"
	chathttp "github.com/fwojciec/chatad/http"
	"github.com/fwojciec/chatad/pdf"
	"github.com/fwojciec/chatad/redis"
	chatslog "github.com/fwojciec/chatad/slog"
	"github.com/fwojciec/chatad/sqlite"
	"google.golang.org/genai"
)

// pagesArchiveName is the directory under DataDir holding archived key pages.
const pagesArchiveName = "pages"

// wire builds the services the selected command needs into deps.
func (m *Main) wire(ctx context.Context, cli *CLI, cmd string, deps *Dependencies) error {
	deps.Logger = newLogger(deps.Stderr, cli.Verbose)

	catalogs := fs.NewCatalogStore(cli.Catalog)
	inventories := fs.NewInventoryStore(cli.Inventory)
	deps.Inventories = inventories
	deps.Catalog = chatad.NewSnapshot(catalogs)

	switch cmd {
	case "crawl":
		crawler, err := m.newCrawler(ctx, cli, cli.Crawl.CrawlFlags, deps)
		if err != nil {
			return err
		}
		deps.Crawler = crawler

	case "build":
		crawler, err := m.newCrawler(ctx, cli, cli.Build.CrawlFlags, deps)
		if err != nil {
			return err
		}
		deps.Crawler = crawler
		if err := m.openRuns(cli, deps); err != nil {
			return err
		}
		deps.Curator = &curate.Curator{Inventories: inventories, Catalogs: catalogs, Runs: deps.Runs}

	case "curate":
		if err := m.openRuns(cli, deps); err != nil {
			return err
		}
		deps.Curator = &curate.Curator{Inventories: inventories, Catalogs: catalogs, Runs: deps.Runs}

	case "history":
		return m.openRuns(cli, deps)

	case "fetch", "serve", "cache":
		cache, err := m.newCache(ctx, cli, deps)
		if err != nil {
			return err
		}
		deps.Cache = cache
		downloader := chatslog.NewLoggingDownloader(chathttp.NewDownloader(), deps.Logger)
		fetcher := content.NewService(deps.Catalog, cache, downloader, pdf.NewExtractor())
		deps.Fetcher = chatslog.NewLoggingDocumentFetcher(fetcher, deps.Logger)
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newCrawler uses Firecrawl when a key is configured and falls back to
// sitemap discovery with direct HTML scraping otherwise.
func (m *Main) newCrawler(ctx context.Context, cli *CLI, flags CrawlFlags, deps *Dependencies) (*curate.Crawler, error) {
	logger := deps.Logger

	var (
		source  chatad.URLSource
		scraper chatad.Scraper
		fc      *firecrawl.Client
	)
	if cli.FirecrawlAPIKey != "" {
		var err error
		fc, err = firecrawl.NewClient(cli.FirecrawlAPIKey)
		if err != nil {
			return nil, err
		}
		source, scraper = fc, fc
	} else {
		fmt.Fprintln(deps.Stderr, "FIRECRAWL_API_KEY not set; discovering URLs from the site's sitemap")
		source = chathttp.NewSitemapService(nil, nil)
		scraper = chathttp.NewScraper(goquery.NewLinkResolver(), htmltomarkdown.NewConverter())
	}

	crawler := &curate.Crawler{
		Source:      chatslog.NewLoggingURLSource(source, logger),
		Scraper:     chatslog.NewLoggingScraper(scraper, logger),
		Limiter:     curate.NewDomainLimiter(curate.DefaultRequestsPerSecond),
		Limit:       flags.Limit,
		Concurrency: flags.Concurrency,
		RetryDelays: curate.DefaultRetryDelays(),
		OnRetry: func(url string, attempt int, err error) {
			logger.Warn("retrying scrape", "url", url, "attempt", attempt, "err", err)
		},
	}
	if flags.Archive {
		crawler.Archive = fs.NewPageArchive(cli.DataDir, pagesArchiveName)
	}

	if flags.Enrich {
		enricher, err := newEnricher(ctx, cli, fc, deps)
		if err != nil {
			return nil, err
		}
		crawler.Enricher = chatslog.NewLoggingEnricher(enricher, logger)
	}

	return crawler, nil
}

// newEnricher prefers Gemini over Firecrawl extraction.
func newEnricher(ctx context.Context, cli *CLI, fc *firecrawl.Client, deps *Dependencies) (chatad.Enricher, error) {
	if cli.GeminiAPIKey == "" {
		if fc != nil {
			return fc, nil
		}
		fmt.Fprintln(deps.Stderr, "Hint: --enrich needs GEMINI_API_KEY or FIRECRAWL_API_KEY. Get a Gemini key at https://aistudio.google.com/apikey")
		return nil, chatad.Errorf(chatad.EINVALID, "no enrichment backend configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cli.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	downloader := chatslog.NewLoggingDownloader(chathttp.NewDownloader(), deps.Logger)
	enricher := gemini.NewEnricher(client, downloader, pdf.NewExtractor())

	tokens, err := gemini.NewTokenCounter(enricher.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}
	enricher.Tokens = tokens

	return enricher, nil
}

// newCache returns the Redis cache when a URL is configured, else the file
// cache.
func (m *Main) newCache(ctx context.Context, cli *CLI, deps *Dependencies) (chatad.ContentCache, error) {
	if cli.RedisURL == "" {
		return chatslog.NewLoggingContentCache(fs.NewFileCache(cli.CacheDir), deps.Logger), nil
	}

	client, err := redis.Open(ctx, cli.RedisURL)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Unset CHATAD_REDIS_URL to use the file cache")
		return nil, err
	}
	m.Redis = client

	return chatslog.NewLoggingContentCache(redis.NewCache(client, ""), deps.Logger), nil
}

func (m *Main) openRuns(cli *CLI, deps *Dependencies) error {
	if cli.DB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set CHATAD_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	deps.Runs = sqlite.NewRunService(m.DB)

	return nil
}
