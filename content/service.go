// Package content serves document full text to agents, extracting it on
// first request and caching it for later ones.
package content

import (
	"context"

	"github.com/fwojciec/chatad"
)

// Ensure Service implements chatad.DocumentFetcher at compile time.
var _ chatad.DocumentFetcher = (*Service)(nil)

// Service fetches, extracts and caches document text.
type Service struct {
	Catalog    chatad.CatalogSource
	Cache      chatad.ContentCache
	Downloader chatad.Downloader
	Extractor  chatad.TextExtractor

	// MaxPages and MaxLength default to chatad.MaxExtractPages and
	// chatad.MaxContentLength.
	MaxPages  int
	MaxLength int
}

// NewService returns a Service with default limits.
func NewService(catalog chatad.CatalogSource, cache chatad.ContentCache, downloader chatad.Downloader, extractor chatad.TextExtractor) *Service {
	return &Service{
		Catalog:    catalog,
		Cache:      cache,
		Downloader: downloader,
		Extractor:  extractor,
		MaxPages:   chatad.MaxExtractPages,
		MaxLength:  chatad.MaxContentLength,
	}
}

// FetchDocument returns the text of the document at url. A cache hit makes
// no network call. A miss downloads and extracts the document, then caches
// the extracted text before truncation. Failures are not retried.
func (s *Service) FetchDocument(ctx context.Context, url string) (*chatad.FetchResult, error) {
	if url == "" {
		return nil, chatad.Errorf(chatad.EINVALID, "document URL required")
	}

	res := &chatad.FetchResult{URL: url}
	doc := s.lookup(ctx, url)
	if doc != nil {
		res.Title = doc.AITitle
	}
	res.Citation = chatad.Citation(doc, url)

	key := chatad.CacheKey(url)
	text, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if ok {
		res.Cached = true
	} else {
		data, err := s.Downloader.Download(ctx, url)
		if err != nil {
			return nil, err
		}
		ext, err := s.Extractor.ExtractText(data, s.maxPages())
		if err != nil {
			return nil, err
		}
		text = ext.Text()
		res.Pages = ext.TotalPages
		res.PagesExtracted = len(ext.Pages)

		if err := s.Cache.Put(ctx, key, text); err != nil {
			return nil, err
		}
	}

	res.Content = chatad.TruncateContent(text, s.maxLength())
	return res, nil
}

// lookup finds url in the served catalog. A missing catalog does not fail
// the fetch; the document is served without a title.
func (s *Service) lookup(ctx context.Context, url string) *chatad.DocumentEntry {
	if s.Catalog == nil {
		return nil
	}
	cat, err := s.Catalog.Catalog(ctx)
	if err != nil {
		return nil
	}
	return cat.Lookup(url)
}

func (s *Service) maxPages() int {
	if s.MaxPages > 0 {
		return s.MaxPages
	}
	return chatad.MaxExtractPages
}

func (s *Service) maxLength() int {
	if s.MaxLength > 0 {
		return s.MaxLength
	}
	return chatad.MaxContentLength
}

// Failure converts a fetch error into the payload returned to agents.
func Failure(url string, err error) *chatad.FetchFailure {
	return &chatad.FetchFailure{
		Error: "Failed to fetch PDF: " + chatad.ErrorMessage(err),
		URL:   url,
	}
}
