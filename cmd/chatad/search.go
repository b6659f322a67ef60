package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/chatad"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	cat, err := loadCatalog(deps)
	if err != nil {
		return err
	}

	res, err := chatad.SearchCatalog(cat, strings.Join(c.Query, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return printJSON(deps.Stdout, res)
	}

	if len(res.Documents) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents found. %s\n", res.Hint)
		return nil
	}
	for _, hit := range res.Documents {
		fmt.Fprintf(deps.Stdout, "%s\n  %s\n", hit.Title, hit.URL)
		if hit.Subcategory != "" {
			fmt.Fprintf(deps.Stdout, "  %s / %s\n", hit.Category, hit.Subcategory)
		} else {
			fmt.Fprintf(deps.Stdout, "  %s\n", hit.Category)
		}
	}
	if res.Truncated {
		fmt.Fprintf(deps.Stdout, "Showing %d of %d matches\n", len(res.Documents), res.TotalMatches)
	}

	return nil
}

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	cat, err := loadCatalog(deps)
	if err != nil {
		return err
	}

	listing := chatad.ListCategories(cat)
	if c.JSON {
		return printJSON(deps.Stdout, listing)
	}

	if listing.TotalCategories == 0 {
		fmt.Fprintln(deps.Stdout, "No categories found. Use 'chatad curate' to build the catalog.")
		return nil
	}
	for _, name := range listing.Order {
		summary := listing.Categories[name]
		fmt.Fprintf(deps.Stdout, "%s (%d documents)\n", name, summary.DocumentCount)
		if len(summary.Subcategories) > 0 {
			fmt.Fprintf(deps.Stdout, "  %s\n", strings.Join(summary.Subcategories, ", "))
		}
	}

	return nil
}

func loadCatalog(deps *Dependencies) (*chatad.Catalog, error) {
	cat, err := deps.Catalog.Catalog(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatad.ErrorMessage(err))
		if chatad.ErrorCode(err) == chatad.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'chatad curate' or set CHATAD_CATALOG")
		}
		return nil, err
	}
	return cat, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
