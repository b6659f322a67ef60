package chatad

import (
	"regexp"
	"strings"
)

// linkPattern matches markdown links: [text](url).
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// linkExtensions are the substrings that mark a link target as document-like.
var linkExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".png"}

// ExtractLinkTitles scans markdown for [text](url) links whose target looks
// like a document and returns a map from target URL to trimmed anchor text.
// When the same URL is linked more than once the last anchor text wins.
func ExtractLinkTitles(markdown string) map[string]string {
	titles := make(map[string]string)
	for _, match := range linkPattern.FindAllStringSubmatch(markdown, -1) {
		text, target := match[1], match[2]
		if !isDocumentLink(target) {
			continue
		}
		titles[target] = strings.TrimSpace(text)
	}
	return titles
}

func isDocumentLink(target string) bool {
	lower := strings.ToLower(target)
	for _, ext := range linkExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// ApplyLinkTitles backfills AI title and description on documents whose URL
// appears in titles. The description is prefixed with label, e.g.
// "ADNI Document: <anchor>". Returns the number of documents updated.
func ApplyLinkTitles(docs []*DocumentEntry, titles map[string]string, label string) int {
	var n int
	for _, doc := range docs {
		title, ok := titles[doc.URL]
		if !ok {
			continue
		}
		doc.AITitle = title
		doc.AIDescription = label + " Document: " + title
		doc.Enhanced = true
		n++
	}
	return n
}

// MergeLinkTitles copies every entry of src into dst, overwriting existing
// keys so that later pages win over earlier ones.
func MergeLinkTitles(dst, src map[string]string) {
	for url, title := range src {
		dst[url] = title
	}
}
