// Package goquery rewrites scraped HTML pages with PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/chatad"
)

// Ensure LinkResolver implements chatad.LinkResolver at compile time.
var _ chatad.LinkResolver = (*LinkResolver)(nil)

// boilerplate is removed before conversion; it carries no document links
// worth titling and only adds noise to the markdown.
const boilerplate = "script, style, noscript, iframe, svg"

// LinkResolver rewrites every anchor in a page to an absolute URL.
type LinkResolver struct{}

// NewLinkResolver returns a LinkResolver.
func NewLinkResolver() *LinkResolver {
	return &LinkResolver{}
}

// ResolveLinks returns html with relative hrefs resolved against pageURL.
// Non-HTTP links (javascript:, mailto:, tel:, data:) and anchor-only links
// are unwrapped to plain text. Fragments are stripped.
func (r *LinkResolver) ResolveLinks(html, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", chatad.Errorf(chatad.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", chatad.Errorf(chatad.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(boilerplate).Remove()

	// A <base href> overrides the page URL for relative links.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(href); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			sel.ReplaceWithSelection(sel.Contents())
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			sel.ReplaceWithSelection(sel.Contents())
			return
		}
		sel.SetAttr("href", resolved)
	})

	out, err := doc.Html()
	if err != nil {
		return "", chatad.Errorf(chatad.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
