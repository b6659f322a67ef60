package http

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/chatad"
)

// Ensure SitemapService implements chatad.URLSource.
var _ chatad.URLSource = (*SitemapService)(nil)

// sitemapLocations are probed in order when robots.txt names no sitemap.
// WordPress sites publish one of the latter two.
var sitemapLocations = []string{"/sitemap.xml", "/sitemap_index.xml", "/wp-sitemap.xml"}

// SitemapService discovers site URLs from robots.txt and XML sitemaps. It is
// the discovery backend used when no mapping service is configured.
type SitemapService struct {
	client *http.Client
	filter *chatad.URLFilter
}

// NewSitemapService creates a new SitemapService.
// If client is nil, http.DefaultClient is used. A nil filter keeps every URL.
func NewSitemapService(client *http.Client, filter *chatad.URLFilter) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, filter: filter}
}

// Discover returns the URLs listed in the site's sitemaps in document
// order, without duplicates, at most limit of them when limit is positive.
// Sitemap indexes are followed. A root URL with a path keeps only URLs under
// that path. A site without sitemaps yields an empty list.
func (s *SitemapService) Discover(ctx context.Context, rootURL string, limit int) ([]string, error) {
	root, err := url.Parse(rootURL)
	if err != nil || root.Host == "" {
		return nil, chatad.Errorf(chatad.EINVALID, "invalid root URL %q", rootURL)
	}

	sitemaps, err := s.locate(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		scope:   scopeOf(root.Path),
		limit:   limit,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		urls:    []string{},
	}
	for _, sm := range sitemaps {
		if w.full() {
			break
		}
		if err := w.visit(ctx, sm); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// locate returns the sitemaps named in robots.txt, or the first
// conventional location that answers.
func (s *SitemapService) locate(ctx context.Context, root *url.URL) ([]string, error) {
	at := func(path string) string {
		return (&url.URL{Scheme: root.Scheme, Host: root.Host, Path: path}).String()
	}

	if sitemaps, err := s.robotsSitemaps(ctx, at("/robots.txt")); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, loc := range sitemapLocations {
		candidate := at(loc)
		ok, err := s.exists(ctx, candidate)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil && ok {
			return []string{candidate}, nil
		}
	}
	return nil, nil
}

// robotsSitemaps reads the Sitemap directives of a robots.txt file.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

func (s *SitemapService) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// sitemapWalk collects page URLs across a tree of sitemaps.
type sitemapWalk struct {
	svc     *SitemapService
	scope   string
	limit   int
	visited map[string]bool
	seen    map[string]bool
	urls    []string
}

func (w *sitemapWalk) full() bool {
	return w.limit > 0 && len(w.urls) >= w.limit
}

// visit reads one sitemap. A <sitemapindex> is followed depth first; any
// other root element is read as a <urlset>.
func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	resp, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	doc := etree.NewDocument()
	_, err = doc.ReadFrom(resp.Body)
	resp.Body.Close()
	if err != nil {
		return chatad.Errorf(chatad.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return chatad.Errorf(chatad.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if w.full() {
				return nil
			}
			if err := w.visit(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, page := range locs(root, "url") {
		if w.full() {
			return nil
		}
		w.add(page)
	}
	return nil
}

func (w *sitemapWalk) add(page string) {
	if w.seen[page] || !inScope(page, w.scope) || !w.svc.filter.Match(page) {
		return
	}
	w.seen[page] = true
	w.urls = append(w.urls, page)
}

// locs returns the non-empty <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// scopeOf turns a root path into a directory prefix; "" means the whole site.
func scopeOf(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// inScope reports whether rawURL's path lies under scope. /docs/ admits
// /docs/ and /docs/intro but not /documentation.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, scope)
}
