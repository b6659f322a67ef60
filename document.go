package chatad

import "strings"

// Entry types recorded in the persisted catalog.
const (
	TypeDocument = "document"
	TypePage     = "page"
)

// DocumentExtensions lists the file extensions that mark a URL as a
// downloadable document.
var DocumentExtensions = []string{"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "png", "jpg"}

// PublicationMarkers are URL substrings denoting publication archives.
// Matching URLs are out of scope for the catalog regardless of file type.
var PublicationMarkers = []string{"publication", "adni-publications", "/wp-content/uploads/papers/"}

// DocumentEntry represents a discovered URL that points to a downloadable file.
type DocumentEntry struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	FileExtension string `json:"file_extension"`
	Type          string `json:"type"`
	AITitle       string `json:"ai_title"`
	AIDescription string `json:"ai_description"`
	Enhanced      bool   `json:"enhanced"`
	Category      string `json:"category,omitempty"`
	Subcategory   string `json:"subcategory,omitempty"`
}

// DisplayTitle returns the link-derived title if present, otherwise the
// filename-derived title.
func (d *DocumentEntry) DisplayTitle() string {
	if d.AITitle != "" {
		return d.AITitle
	}
	return d.Title
}

// Validate returns an error if the entry contains invalid fields.
func (d *DocumentEntry) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if !IsDocumentExtension(d.FileExtension) {
		return Errorf(EINVALID, "unsupported document extension %q", d.FileExtension)
	}
	return nil
}

// PageEntry represents a discovered URL that is not a document.
type PageEntry struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Classification is the result of partitioning a URL set.
type Classification struct {
	Documents []*DocumentEntry
	Pages     []*PageEntry

	// Excluded counts URLs dropped by the publication rule.
	Excluded int
}

// IsDocumentExtension reports whether ext (already lowercased) is in
// DocumentExtensions.
func IsDocumentExtension(ext string) bool {
	for _, e := range DocumentExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsPublication reports whether the URL points into a publication archive.
func IsPublication(url string) bool {
	lower := strings.ToLower(url)
	for _, marker := range PublicationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ClassifyURL returns a DocumentEntry when the URL's final path segment
// carries a document extension, or nil when the URL is a page.
// The publication rule is not applied here; see ClassifyURLs.
func ClassifyURL(url string) *DocumentEntry {
	filename := url[strings.LastIndex(url, "/")+1:]
	if i := strings.Index(filename, "?"); i >= 0 {
		filename = filename[:i]
	}

	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return nil
	}

	ext := strings.ToLower(filename[dot+1:])
	if !IsDocumentExtension(ext) {
		return nil
	}

	return &DocumentEntry{
		URL:           url,
		Title:         TitleFromFilename(filename),
		FileExtension: ext,
		Type:          TypeDocument,
	}
}

// TitleFromFilename derives a readable title from a URL filename.
// Only %20 is decoded; other escapes are kept verbatim.
func TitleFromFilename(filename string) string {
	title := strings.ReplaceAll(filename, "%20", " ")
	return strings.ReplaceAll(title, "_", " ")
}

// ClassifyURLs partitions urls into documents and pages, dropping
// publication URLs. Input order is preserved within each partition.
func ClassifyURLs(urls []string) *Classification {
	c := &Classification{
		Documents: []*DocumentEntry{},
		Pages:     []*PageEntry{},
	}
	for _, u := range urls {
		if IsPublication(u) {
			c.Excluded++
			continue
		}
		if doc := ClassifyURL(u); doc != nil {
			c.Documents = append(c.Documents, doc)
			continue
		}
		c.Pages = append(c.Pages, &PageEntry{URL: u, Type: TypePage})
	}
	return c
}
