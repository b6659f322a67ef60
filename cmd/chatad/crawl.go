package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/curate"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	inv, err := crawl(deps, c.URL)
	if err != nil {
		return err
	}

	if err := deps.Inventories.SaveInventory(deps.Ctx, inv); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		return err
	}

	printInventory(deps.Stdout, inv)
	return nil
}

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	inv, err := crawl(deps, c.URL)
	if err != nil {
		return err
	}
	printInventory(deps.Stdout, inv)

	cat, run, err := deps.Curator.Build(deps.Ctx, inv)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		return err
	}

	printCatalog(deps.Stdout, cat, run)
	return nil
}

// Run executes the curate command.
func (c *CurateCmd) Run(deps *Dependencies) error {
	cat, run, err := deps.Curator.Curate(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		if chatad.ErrorCode(err) == chatad.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'chatad crawl' first to create the inventory")
		}
		return err
	}

	printCatalog(deps.Stdout, cat, run)
	return nil
}

func crawl(deps *Dependencies, rootURL string) (*chatad.Inventory, error) {
	progress := func(event curate.ProgressEvent) {
		switch event.Type {
		case curate.ProgressStarted:
			if event.Stage == curate.StageEnrich {
				fmt.Fprintf(deps.Stdout, "  Enriching %d documents\n", event.Total)
			} else {
				fmt.Fprintf(deps.Stdout, "  Scraping %d key pages\n", event.Total)
			}
		case curate.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, chatad.ErrorMessage(event.Error))
		}
	}

	fmt.Fprintf(deps.Stdout, "Crawling %s\n", rootURL)
	inv, err := deps.Crawler.Crawl(deps.Ctx, rootURL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", chatad.ErrorMessage(err))
		return nil, err
	}
	return inv, nil
}

func printInventory(w io.Writer, inv *chatad.Inventory) {
	md := inv.Metadata
	fmt.Fprintf(w, "Found %d documents and %d pages (%d publications filtered)\n",
		md.DocumentsCount, md.PagesCount, md.PublicationsFiltered)
	if md.EnhancedCount > 0 {
		fmt.Fprintf(w, "  %d documents titled from site links or enrichment\n", md.EnhancedCount)
	}
}

func printCatalog(w io.Writer, cat *chatad.Catalog, run *chatad.Run) {
	md := cat.Metadata
	fmt.Fprintf(w, "Organized %d of %d documents into %d categories (%d uncategorized, %d skipped)\n",
		md.OrganizedDocuments, md.TotalDocuments, len(cat.DocumentsByCategory),
		md.UncategorizedDocuments, md.SkippedDocuments)
	if run != nil {
		fmt.Fprintf(w, "Recorded run %s\n", run.ID)
	}
}
