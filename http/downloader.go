// Package http implements document download, page scraping and sitemap
// discovery over plain HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/chatad"
)

// DefaultFetchTimeout bounds a single document download.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBytes caps the size of a downloaded document.
const DefaultMaxBytes = 100 << 20

// userAgent identifies the catalog client to the consortium site.
const userAgent = "chatad/1.0 (+https://github.com/fwojciec/chatad)"

// Ensure Downloader implements chatad.Downloader at compile time.
var _ chatad.Downloader = (*Downloader)(nil)

// Downloader retrieves raw document bytes.
type Downloader struct {
	client   *http.Client
	maxBytes int64
}

// Option configures a Downloader or Scraper.
type Option func(*options)

type options struct {
	timeout  time.Duration
	maxBytes int64
	client   *http.Client
}

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithClient uses client instead of a fresh http.Client. The client's own
// Timeout is replaced by the configured timeout.
func WithClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	c := &http.Client{}
	if o.client != nil {
		clone := *o.client
		c = &clone
	}
	c.Timeout = o.timeout
	o.client = c
	return o
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...Option) *Downloader {
	o := newOptions(opts)
	return &Downloader{
		client:   o.client,
		maxBytes: o.maxBytes,
	}
}

// Download returns the response body. Network failures and non-2xx
// statuses are EUNAVAILABLE.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return get(ctx, d.client, url, d.maxBytes)
}

// get issues a GET and reads at most maxBytes of a 2xx body.
func get(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, chatad.Errorf(chatad.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "reading %s: %v", url, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "%s exceeds %s", url, formatBytes(maxBytes))
	}
	return body, nil
}

func formatBytes(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%d MiB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
