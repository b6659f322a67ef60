// Package firecrawl implements site mapping, page scraping and structured
// extraction on top of the Firecrawl v2 API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/chatad"
)

// DefaultBaseURL is the hosted Firecrawl API.
const DefaultBaseURL = "https://api.firecrawl.dev"

// DefaultTimeout bounds a single API call. Mapping a large site can take a
// while, so this is well above a plain page fetch.
const DefaultTimeout = 120 * time.Second

// Ensure Client implements the chatad interfaces at compile time.
var (
	_ chatad.URLSource = (*Client)(nil)
	_ chatad.Scraper   = (*Client)(nil)
	_ chatad.Enricher  = (*Client)(nil)
)

// Client calls the Firecrawl API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, chatad.Errorf(chatad.EINVALID, "Firecrawl API key required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// mapRequest is the body of POST /v2/map.
type mapRequest struct {
	URL               string `json:"url"`
	Limit             int    `json:"limit,omitempty"`
	IncludeSubdomains bool   `json:"includeSubdomains"`
	Sitemap           string `json:"sitemap"`
}

// Discover maps the site rooted at rootURL.
func (c *Client) Discover(ctx context.Context, rootURL string, limit int) ([]string, error) {
	var raw json.RawMessage
	err := c.post(ctx, "/v2/map", mapRequest{
		URL:               rootURL,
		Limit:             limit,
		IncludeSubdomains: false,
		Sitemap:           "include",
	}, &raw)
	if err != nil {
		return nil, err
	}
	return parseMapLinks(raw)
}

// parseMapLinks accepts the link list under "links", "data.links" or
// "data", where each entry is either a URL string or a {"url": ...} record.
func parseMapLinks(raw json.RawMessage) ([]string, error) {
	var env struct {
		Links json.RawMessage `json:"links"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, chatad.Errorf(chatad.EINVALID, "decoding map response: %v", err)
	}

	list := env.Links
	if len(list) == 0 && len(env.Data) > 0 {
		var data struct {
			Links json.RawMessage `json:"links"`
		}
		if json.Unmarshal(env.Data, &data) == nil && len(data.Links) > 0 {
			list = data.Links
		} else {
			list = env.Data
		}
	}
	if len(list) == 0 || string(list) == "null" {
		return []string{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(list, &entries); err != nil {
		return []string{}, nil
	}

	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		var s string
		if json.Unmarshal(e, &s) == nil {
			if s != "" {
				urls = append(urls, s)
			}
			continue
		}
		var rec struct {
			URL string `json:"url"`
		}
		if json.Unmarshal(e, &rec) == nil && rec.URL != "" {
			urls = append(urls, rec.URL)
		}
	}
	return urls, nil
}

// scrapeRequest is the body of POST /v2/scrape.
type scrapeRequest struct {
	URL     string         `json:"url"`
	Formats []any          `json:"formats"`
	Extract *extractOption `json:"extract,omitempty"`
}

type extractOption struct {
	Schema map[string]any `json:"schema"`
}

type scrapeResponse struct {
	Data struct {
		Markdown string             `json:"markdown"`
		Extract  *chatad.Enrichment `json:"extract"`
		JSON     *chatad.Enrichment `json:"json"`
	} `json:"data"`
}

// Scrape returns the page at url rendered as markdown.
func (c *Client) Scrape(ctx context.Context, url string) (string, error) {
	var resp scrapeResponse
	if err := c.post(ctx, "/v2/scrape", scrapeRequest{
		URL:     url,
		Formats: []any{"markdown"},
	}, &resp); err != nil {
		return "", err
	}
	return resp.Data.Markdown, nil
}

// enrichmentSchema asks the extractor for a title and a description.
var enrichmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
	},
}

// Enrich asks Firecrawl to read the document and extract a title and
// description.
func (c *Client) Enrich(ctx context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error) {
	var resp scrapeResponse
	if err := c.post(ctx, "/v2/scrape", scrapeRequest{
		URL:     doc.URL,
		Formats: []any{"extract"},
		Extract: &extractOption{Schema: enrichmentSchema},
	}, &resp); err != nil {
		return nil, err
	}

	e := resp.Data.Extract
	if e == nil {
		e = resp.Data.JSON
	}
	if e == nil || (e.Title == "" && e.Description == "") {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "no extraction returned for %s", doc.URL)
	}
	return e, nil
}

// envelope carries the fields every Firecrawl response shares.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// post sends body as JSON to path and decodes a successful response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return chatad.Errorf(chatad.EUNAVAILABLE, "firecrawl %s: %v", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatad.Errorf(chatad.EUNAVAILABLE, "firecrawl %s: reading response: %v", path, err)
	}

	var env envelope
	_ = json.Unmarshal(respBody, &env)

	if resp.StatusCode != http.StatusOK {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return chatad.Errorf(chatad.EUNAVAILABLE, "firecrawl %s returned status %d: %s", path, resp.StatusCode, msg)
	}
	if env.Success != nil && !*env.Success {
		return chatad.Errorf(chatad.EUNAVAILABLE, "firecrawl %s failed: %s", path, env.Error)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return chatad.Errorf(chatad.EINVALID, "firecrawl %s: decoding response: %v", path, err)
	}
	return nil
}
