package chatad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// StructureVersion tags the catalog layout produced by BuildCatalog.
const StructureVersion = "documentation_page_v1"

// Inventory is the raw result of a crawl: every non-publication URL on the
// site, classified into documents and pages.
type Inventory struct {
	Metadata  InventoryMetadata `json:"metadata"`
	Documents []*DocumentEntry  `json:"documents"`
	Pages     []*PageEntry      `json:"pages"`
}

// InventoryMetadata summarises a crawl.
type InventoryMetadata struct {
	TotalLinks           int    `json:"total_links"`
	DocumentsCount       int    `json:"documents_count"`
	PagesCount           int    `json:"pages_count"`
	PublicationsFiltered int    `json:"publications_filtered"`
	Source               string `json:"source"`
	EnhancedFromWebsite  bool   `json:"enhanced_from_website"`
	EnhancedCount        int    `json:"enhanced_count"`
}

// NewInventory builds an inventory from a classification result.
func NewInventory(c *Classification, source string) *Inventory {
	return &Inventory{
		Metadata: InventoryMetadata{
			TotalLinks:           len(c.Documents) + len(c.Pages),
			DocumentsCount:       len(c.Documents),
			PagesCount:           len(c.Pages),
			PublicationsFiltered: c.Excluded,
			Source:               source,
		},
		Documents: c.Documents,
		Pages:     c.Pages,
	}
}

// Catalog is the curated, categorized document set served to agents.
// A Catalog is never modified after it is published.
type Catalog struct {
	Metadata            CatalogMetadata  `json:"metadata"`
	DocumentsByCategory CategoryTree     `json:"documents_by_category"`
	Uncategorized       []*DocumentEntry `json:"uncategorized"`
	Skipped             []*DocumentEntry `json:"skipped"`
	Pages               []*PageEntry     `json:"pages"`
}

// CatalogMetadata holds counts and provenance for a catalog.
type CatalogMetadata struct {
	TotalLinks             int    `json:"total_links"`
	TotalDocuments         int    `json:"total_documents"`
	PagesCount             int    `json:"pages_count"`
	PublicationsFiltered   int    `json:"publications_filtered"`
	OrganizedDocuments     int    `json:"organized_documents"`
	SkippedDocuments       int    `json:"skipped_documents"`
	UncategorizedDocuments int    `json:"uncategorized_documents"`
	EnhancedCount          int    `json:"enhanced_count"`
	Source                 string `json:"source"`
	StructureVersion       string `json:"structure_version"`
}

// Category is one top-level node of the catalog tree.
type Category struct {
	Name          string
	Subcategories []*Subcategory
}

// Count returns the number of documents filed under the category.
func (c *Category) Count() int {
	var n int
	for _, sub := range c.Subcategories {
		n += len(sub.Documents)
	}
	return n
}

// Subcategory is a leaf of the catalog tree.
type Subcategory struct {
	Name      string
	Documents []*DocumentEntry
}

// CategoryTree is an ordered category → subcategory → documents mapping.
// It encodes as a JSON object whose keys keep tree order.
type CategoryTree []*Category

// Find returns the named category or nil.
func (t CategoryTree) Find(name string) *Category {
	for _, c := range t {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// MarshalJSON encodes the tree as nested objects in tree order.
func (t CategoryTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, c.Name); err != nil {
			return nil, err
		}
		b, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the category as a subcategory → documents object in
// tree order. A nil category encodes as an empty object.
func (c *Category) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c != nil {
		for j, sub := range c.Subcategories {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, sub.Name); err != nil {
				return nil, err
			}
			docs := sub.Documents
			if docs == nil {
				docs = []*DocumentEntry{}
			}
			b, err := json.Marshal(docs)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON decodes nested objects, preserving key order.
func (t *CategoryTree) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	tree := CategoryTree{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}
		cat := &Category{Name: name}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			subName, err := readKey(dec)
			if err != nil {
				return err
			}
			sub := &Subcategory{Name: subName}
			if err := dec.Decode(&sub.Documents); err != nil {
				return fmt.Errorf("decoding %s/%s: %w", name, subName, err)
			}
			cat.Subcategories = append(cat.Subcategories, sub)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		tree = append(tree, cat)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*t = tree
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q in category tree, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key in category tree, got %v", tok)
	}
	return key, nil
}

// Lookup returns the document with the exact URL, or nil.
func (c *Catalog) Lookup(url string) *DocumentEntry {
	for _, cat := range c.DocumentsByCategory {
		for _, sub := range cat.Subcategories {
			for _, doc := range sub.Documents {
				if doc.URL == url {
					return doc
				}
			}
		}
	}
	for _, doc := range c.Uncategorized {
		if doc.URL == url {
			return doc
		}
	}
	for _, doc := range c.Skipped {
		if doc.URL == url {
			return doc
		}
	}
	return nil
}

// BuildCatalog files every inventory document under exactly one of: a
// taxonomy leaf, the uncategorized list, or the skipped list. The input
// inventory is not modified. Output order is fully determined by the
// taxonomy declaration order and the inventory order.
func BuildCatalog(inv *Inventory, tax *Taxonomy) *Catalog {
	organized := make(map[string]map[string][]*DocumentEntry)
	cat := &Catalog{
		Uncategorized: []*DocumentEntry{},
		Skipped:       []*DocumentEntry{},
		Pages:         inv.Pages,
	}
	if cat.Pages == nil {
		cat.Pages = []*PageEntry{}
	}

	var enhanced int
	for _, src := range inv.Documents {
		doc := *src
		doc.Category, doc.Subcategory = "", ""
		if doc.Enhanced {
			enhanced++
		}

		p := tax.Categorize(doc.DisplayTitle(), doc.URL)
		switch {
		case p.Skip:
			cat.Skipped = append(cat.Skipped, &doc)
		case p.Uncategorized():
			cat.Uncategorized = append(cat.Uncategorized, &doc)
		default:
			doc.Category, doc.Subcategory = p.Category, p.Subcategory
			if organized[p.Category] == nil {
				organized[p.Category] = make(map[string][]*DocumentEntry)
			}
			organized[p.Category][p.Subcategory] = append(organized[p.Category][p.Subcategory], &doc)
		}
	}

	cat.DocumentsByCategory = orderTree(organized, tax)

	var count int
	for _, c := range cat.DocumentsByCategory {
		count += c.Count()
	}

	cat.Metadata = CatalogMetadata{
		TotalLinks:             inv.Metadata.TotalLinks,
		TotalDocuments:         len(inv.Documents),
		PagesCount:             len(cat.Pages),
		PublicationsFiltered:   inv.Metadata.PublicationsFiltered,
		OrganizedDocuments:     count,
		SkippedDocuments:       len(cat.Skipped),
		UncategorizedDocuments: len(cat.Uncategorized),
		EnhancedCount:          enhanced,
		Source:                 inv.Metadata.Source,
		StructureVersion:       StructureVersion,
	}
	return cat
}

// orderTree arranges categories and subcategories in taxonomy order.
// Names unknown to the taxonomy sort alphabetically after known ones.
func orderTree(organized map[string]map[string][]*DocumentEntry, tax *Taxonomy) CategoryTree {
	tree := CategoryTree{}
	for _, name := range orderedKeys(organized, tax.Categories()) {
		subs := organized[name]
		c := &Category{Name: name}
		for _, subName := range orderedKeys(subs, tax.Subcategories(name)) {
			c.Subcategories = append(c.Subcategories, &Subcategory{Name: subName, Documents: subs[subName]})
		}
		tree = append(tree, c)
	}
	return tree
}

func orderedKeys[V any](m map[string]V, declared []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range declared {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// CatalogStore persists catalogs.
type CatalogStore interface {
	// LoadCatalog reads the published catalog.
	// Returns ENOTFOUND if no catalog has been published.
	LoadCatalog(ctx context.Context) (*Catalog, error)

	// SaveCatalog replaces the published catalog atomically.
	SaveCatalog(ctx context.Context, catalog *Catalog) error
}

// InventoryStore persists raw crawl inventories.
type InventoryStore interface {
	// LoadInventory returns ENOTFOUND if no crawl has been saved.
	LoadInventory(ctx context.Context) (*Inventory, error)
	SaveInventory(ctx context.Context, inv *Inventory) error
}
