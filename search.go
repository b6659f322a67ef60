package chatad

import "strings"

// MaxSearchResults caps the number of documents returned by SearchCatalog.
const MaxSearchResults = 20

// UncategorizedLabel is the category reported for documents in the
// catalog's uncategorized list.
const UncategorizedLabel = "Uncategorized"

// searchableExtensions are the only file types returned by search.
var searchableExtensions = []string{"pdf", "docx", "doc"}

const (
	searchHint     = "Use fetch_pdf with a document URL to read its full text."
	truncatedHint  = "More than 20 documents matched. Add terms to narrow the search, then use fetch_pdf with a document URL to read its full text."
	noMatchesHint  = "No documents matched every term. Try fewer or broader terms, or call list_categories to browse."
	categoriesHint = "Search within a category by adding its name to search_catalog, e.g. \"mri manual\"."
)

// SearchHit is a single document in a search response.
type SearchHit struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	FileExtension string `json:"file_extension"`
	Category      string `json:"category"`
	Subcategory   string `json:"subcategory,omitempty"`
}

// SearchResult is the response of SearchCatalog.
type SearchResult struct {
	Query        string       `json:"query"`
	TotalMatches int          `json:"total_matches"`
	Truncated    bool         `json:"truncated"`
	Documents    []*SearchHit `json:"documents"`
	Hint         string       `json:"hint"`
}

// SearchCatalog returns documents whose searchable text contains every
// whitespace-separated query term. Results follow catalog order (category,
// subcategory, document, then the uncategorized list) and are capped at
// MaxSearchResults. There is no relevance ranking.
func SearchCatalog(catalog *Catalog, query string) (*SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, Errorf(EINVALID, "search query required")
	}

	res := &SearchResult{
		Query:     query,
		Documents: []*SearchHit{},
	}
	consider := func(doc *DocumentEntry, category, subcategory string) {
		if !isSearchable(doc) || !matchesAll(searchText(doc, category, subcategory), terms) {
			return
		}
		res.TotalMatches++
		if len(res.Documents) >= MaxSearchResults {
			res.Truncated = true
			return
		}
		res.Documents = append(res.Documents, &SearchHit{
			Title:         doc.DisplayTitle(),
			URL:           doc.URL,
			Description:   doc.AIDescription,
			FileExtension: doc.FileExtension,
			Category:      category,
			Subcategory:   subcategory,
		})
	}

	for _, cat := range catalog.DocumentsByCategory {
		for _, sub := range cat.Subcategories {
			for _, doc := range sub.Documents {
				consider(doc, cat.Name, sub.Name)
			}
		}
	}
	for _, doc := range catalog.Uncategorized {
		consider(doc, UncategorizedLabel, "")
	}

	switch {
	case res.TotalMatches == 0:
		res.Hint = noMatchesHint
	case res.Truncated:
		res.Hint = truncatedHint
	default:
		res.Hint = searchHint
	}
	return res, nil
}

func isSearchable(doc *DocumentEntry) bool {
	ext := strings.ToLower(doc.FileExtension)
	for _, e := range searchableExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func searchText(doc *DocumentEntry, category, subcategory string) string {
	return strings.ToLower(strings.Join([]string{
		doc.Title, doc.AITitle, doc.AIDescription, category, subcategory,
	}, " "))
}

func matchesAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// CategorySummary describes one category in a listing.
type CategorySummary struct {
	DocumentCount int      `json:"document_count"`
	Subcategories []string `json:"subcategories"`
}

// CategoryListing is the response of ListCategories. Categories are keyed
// by name; Order carries the catalog order for callers that need it.
type CategoryListing struct {
	TotalCategories int                         `json:"total_categories"`
	Categories      map[string]*CategorySummary `json:"categories"`
	Order           []string                    `json:"-"`
	Hint            string                      `json:"hint"`
}

// ListCategories summarises the catalog tree.
func ListCategories(catalog *Catalog) *CategoryListing {
	listing := &CategoryListing{
		Categories: make(map[string]*CategorySummary, len(catalog.DocumentsByCategory)),
		Hint:       categoriesHint,
	}
	for _, cat := range catalog.DocumentsByCategory {
		summary := &CategorySummary{
			DocumentCount: cat.Count(),
			Subcategories: make([]string, 0, len(cat.Subcategories)),
		}
		for _, sub := range cat.Subcategories {
			summary.Subcategories = append(summary.Subcategories, sub.Name)
		}
		listing.Categories[cat.Name] = summary
		listing.Order = append(listing.Order, cat.Name)
	}
	listing.TotalCategories = len(listing.Order)
	return listing
}
