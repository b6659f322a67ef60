package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme      = "adni://"
	catalogURI     = uriScheme + "catalog"
	categoryPrefix = uriScheme + "category/"
	jsonMIME       = "application/json"
)

// categoryResources are the fixed per-category resources.
var categoryResources = []struct {
	slug     string
	category string
}{
	{"mri-protocols", "MRI Protocols"},
	{"pet-protocols", "PET Protocols"},
	{"clinical-protocols", "Clinical Protocols"},
	{"consent-forms", "Consent Forms"},
}

// categoryDocuments is the payload of a category resource.
type categoryDocuments struct {
	Category  string          `json:"category"`
	Documents json.RawMessage `json:"documents"`
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         catalogURI,
		Name:        "catalog",
		Description: "Complete ADNI document catalog",
		MIMEType:    jsonMIME,
	}, s.handleCatalogResource)

	for _, r := range categoryResources {
		category := r.category
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + r.slug,
			Name:        r.slug,
			Description: category + " documents",
			MIMEType:    jsonMIME,
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			return s.categoryResource(ctx, req.Params.URI, category)
		})
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: categoryPrefix + "{name}",
		Name:        "category",
		Description: "Documents in one catalog category, by name",
		MIMEType:    jsonMIME,
	}, s.handleCategoryTemplate)
}

func (s *Server) handleCatalogResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, cat)
}

func (s *Server) handleCategoryTemplate(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	name, ok := categoryName(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.categoryResource(ctx, req.Params.URI, name)
}

// categoryResource returns the subcategory tree of category. An unknown
// category yields an empty documents object.
func (s *Server) categoryResource(ctx context.Context, uri, category string) (*mcp.ReadResourceResult, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := cat.DocumentsByCategory.Find(category).MarshalJSON()
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, categoryDocuments{Category: category, Documents: docs})
}

// categoryName extracts and unescapes the name from adni://category/{name}.
func categoryName(uri string) (string, bool) {
	raw, ok := strings.CutPrefix(uri, categoryPrefix)
	if !ok || raw == "" {
		return "", false
	}
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}
