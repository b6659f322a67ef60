package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/curate"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Crawler     *curate.Crawler
	Curator     *curate.Curator
	Inventories chatad.InventoryStore
	Catalog     chatad.CatalogSource
	Fetcher     chatad.DocumentFetcher
	Cache       chatad.ContentCache
	Runs        chatad.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Catalog   string `default:"results/adni.json" env:"CHATAD_CATALOG" help:"Published catalog file"`
	Inventory string `default:"data/adni_raw.json" env:"CHATAD_INVENTORY" help:"Raw crawl inventory file"`
	DataDir   string `default:"data" env:"CHATAD_DATA_DIR" help:"Directory for archived key pages"`
	CacheDir  string `default:"data/pdf_cache" env:"CHATAD_CACHE_DIR" help:"Document text cache directory"`
	DB        string `name:"db" default:"data/chatad.db" env:"CHATAD_DB" help:"Run history database"`
	RedisURL  string `name:"redis-url" env:"CHATAD_REDIS_URL" help:"Shared Redis cache (replaces the file cache)"`

	FirecrawlAPIKey string `name:"firecrawl-api-key" env:"FIRECRAWL_API_KEY" help:"Firecrawl key for site mapping and scraping"`
	GeminiAPIKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini key for document enrichment"`

	Verbose bool `short:"v" help:"Log service calls to stderr"`

	Crawl      CrawlCmd      `cmd:"" help:"Crawl the site and save the raw inventory"`
	Curate     CurateCmd     `cmd:"" help:"Organize the saved inventory into the catalog"`
	Build      BuildCmd      `cmd:"" help:"Crawl and curate in one step"`
	Search     SearchCmd     `cmd:"" help:"Search the catalog"`
	Categories CategoriesCmd `cmd:"" help:"List catalog categories"`
	Fetch      FetchCmd      `cmd:"" help:"Fetch the text of a document"`
	Serve      ServeCmd      `cmd:"" help:"Serve the catalog over MCP"`
	History    HistoryCmd    `cmd:"" help:"List past curation runs"`
	Cache      CacheCmd      `cmd:"" help:"Manage the document text cache"`
}

// CrawlFlags configures a crawl.
type CrawlFlags struct {
	URL         string `arg:"" optional:"" default:"https://adni.loni.usc.edu" help:"Site root URL"`
	Limit       int    `default:"5000" help:"Maximum URLs requested from discovery"`
	Concurrency int    `short:"c" default:"5" help:"Concurrent scrape and enrichment limit"`
	Enrich      bool   `help:"Generate titles and descriptions for untitled PDFs"`
	Archive     bool   `default:"true" negatable:"" help:"Archive scraped key pages as markdown"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	CrawlFlags `embed:""`
}

// CurateCmd is the "curate" subcommand.
type CurateCmd struct{}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	CrawlFlags `embed:""`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms (all must match)"`
	JSON  bool     `help:"Print the raw JSON response"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct {
	JSON bool `help:"Print the raw JSON response"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL  string `arg:"" help:"Document URL"`
	JSON bool   `help:"Print the raw JSON response"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Serve streamable HTTP on this address instead of stdio"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Source string `help:"Only show runs for this source URL"`
	Limit  int    `short:"n" default:"20" help:"Maximum runs to show"`
}

// CacheCmd groups cache subcommands.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Remove every cached document"`
}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct{}
