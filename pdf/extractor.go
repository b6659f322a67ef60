// Package pdf extracts page text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"

	"github.com/fwojciec/chatad"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements chatad.TextExtractor at compile time.
var _ chatad.TextExtractor = (*Extractor)(nil)

// Extractor reads plain text from PDF pages.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText reads the text of at most maxPages pages. A page whose text
// cannot be decoded is recorded as empty rather than failing the document.
// Input that is not a readable PDF is EINVALID.
func (e *Extractor) ExtractText(data []byte, maxPages int) (ext *chatad.Extraction, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			ext, err = nil, chatad.Errorf(chatad.EINVALID, "unreadable PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, chatad.Errorf(chatad.EINVALID, "unreadable PDF: %v", err)
	}

	total := r.NumPage()
	n := total
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	ext = &chatad.Extraction{
		Pages:      make([]string, n),
		TotalPages: total,
	}
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		ext.Pages[i-1] = text
	}
	return ext, nil
}
