package main

import (
	"fmt"

	"github.com/fwojciec/chatad/content"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	res, err := deps.Fetcher.FetchDocument(deps.Ctx, c.URL)
	if err != nil {
		failure := content.Failure(c.URL, err)
		if c.JSON {
			_ = printJSON(deps.Stdout, failure)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", failure.Error)
		return err
	}

	if c.JSON {
		return printJSON(deps.Stdout, res)
	}

	fmt.Fprintf(deps.Stdout, "%s\n%s\n", res.Title, res.Citation)
	switch {
	case res.Cached:
		fmt.Fprintln(deps.Stdout, "(from cache)")
	case res.Pages > 0:
		fmt.Fprintf(deps.Stdout, "(extracted %d of %d pages)\n", res.PagesExtracted, res.Pages)
	}
	fmt.Fprintf(deps.Stdout, "\n%s\n", res.Content)

	return nil
}

// Run executes the cache clear command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	n, err := deps.Cache.Clear(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %d cached documents\n", n)
	return nil
}
