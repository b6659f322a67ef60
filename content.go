package chatad

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Content limits applied when serving document text.
const (
	MaxExtractPages  = 20
	MaxContentLength = 50000
)

// CacheKey returns the cache key for a document URL: the hex-encoded
// xxhash64 digest of the URL string.
func CacheKey(url string) string {
	return strconv.FormatUint(xxhash.Sum64String(url), 16)
}

// ContentCache stores extracted document text keyed by CacheKey.
// Entries are written once and never expire; concurrent writers of the same
// key may race, last writer wins.
type ContentCache interface {
	// Get returns the cached text and true, or "" and false on a miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores text under key.
	Put(ctx context.Context, key, text string) error

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Downloader retrieves raw document bytes.
type Downloader interface {
	// Download returns the response body. A non-2xx status is an
	// EUNAVAILABLE error.
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extraction is the text pulled out of a paged document.
type Extraction struct {
	// Pages holds the text of the first extracted pages, in page order.
	// Pages[i] is page i+1.
	Pages []string

	// TotalPages is the page count of the whole document.
	TotalPages int
}

// TextExtractor pulls page text out of document bytes.
type TextExtractor interface {
	// ExtractText reads at most maxPages pages. Unparseable input is an
	// EINVALID error.
	ExtractText(data []byte, maxPages int) (*Extraction, error)
}

// Text renders an extraction as "[Page N]" blocks separated by blank lines.
// Pages with no text are skipped. When the document has more pages than
// were extracted a trailing notice is appended.
func (e *Extraction) Text() string {
	blocks := make([]string, 0, len(e.Pages))
	for i, page := range e.Pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Page %d]\n%s", i+1, page))
	}
	text := strings.Join(blocks, "\n\n")
	if e.TotalPages > len(e.Pages) {
		text += fmt.Sprintf("\n\n[... Showing first %d of %d pages ...]", len(e.Pages), e.TotalPages)
	}
	return text
}

// TruncateContent caps text at max runes, appending a notice with the
// full length when anything was cut.
func TruncateContent(text string, max int) string {
	n := utf8.RuneCountInString(text)
	if n <= max {
		return text
	}
	var cut int
	for i := range text {
		if max == 0 {
			cut = i
			break
		}
		max--
	}
	return text[:cut] + fmt.Sprintf("\n\n[... Content truncated. Full document has %d characters ...]", n)
}

// Citation returns the attribution line for a served document. doc may be
// nil when the URL is not in the catalog.
func Citation(doc *DocumentEntry, url string) string {
	if doc == nil {
		return "Source: " + url
	}
	label := doc.AITitle
	if label == "" {
		label = url
	}
	return "Source: " + label + " - " + url
}

// FetchResult is the payload returned for a successful document fetch.
// Pages and PagesExtracted are only set when the text was freshly
// extracted.
type FetchResult struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Cached         bool   `json:"cached"`
	Pages          int    `json:"pages,omitempty"`
	PagesExtracted int    `json:"pages_extracted,omitempty"`
	Content        string `json:"content"`
	Citation       string `json:"citation"`
}

// FetchFailure is the payload returned to agents when a fetch fails.
type FetchFailure struct {
	Error string `json:"error"`
	URL   string `json:"url"`
}

// DocumentFetcher retrieves document text for agents.
type DocumentFetcher interface {
	// FetchDocument returns the document's text, serving from cache when
	// possible. Failures carry EUNAVAILABLE (network, status) or EINVALID
	// (unparseable document).
	FetchDocument(ctx context.Context, url string) (*FetchResult, error)
}
