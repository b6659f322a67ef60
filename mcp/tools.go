package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/content"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_catalog tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"space separated keywords; every keyword must match"`
}

// ListCategoriesInput is the input schema for the list_categories tool.
type ListCategoriesInput struct{}

// FetchInput is the input schema for the fetch_pdf tool.
type FetchInput struct {
	URL string `json:"url" jsonschema:"the full URL of a document from the catalog"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_catalog",
		Description: "Search the ADNI document catalog by keywords. Returns up to 20 PDF and Word documents whose title, description or category contain every keyword.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List catalog categories with their document counts and subcategories.",
	}, s.handleListCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch_pdf",
		Description: "Fetch and extract the text of an ADNI PDF document, with a citation. Text is cached after the first fetch.",
	}, s.handleFetch)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, chatad.SearchResult, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, chatad.SearchResult{}, err
	}
	res, err := chatad.SearchCatalog(cat, in.Query)
	if err != nil {
		return nil, chatad.SearchResult{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *mcp.CallToolRequest, _ ListCategoriesInput) (*mcp.CallToolResult, chatad.CategoryListing, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, chatad.CategoryListing{}, err
	}
	return nil, *chatad.ListCategories(cat), nil
}

// handleFetch returns the fetch result, or a {error, url} payload marked
// as a tool error when the document cannot be fetched.
func (s *Server) handleFetch(ctx context.Context, _ *mcp.CallToolRequest, in FetchInput) (*mcp.CallToolResult, any, error) {
	var payload any
	res, err := s.fetcher.FetchDocument(ctx, in.URL)
	failed := err != nil
	if failed {
		payload = content.Failure(in.URL, err)
	} else {
		payload = res
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling fetch result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: failed,
	}, nil, nil
}
