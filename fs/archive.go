package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/chatad"
)

// Ensure PageArchive implements chatad.PageArchive at compile time.
var _ chatad.PageArchive = (*PageArchive)(nil)

// PageArchive stores scraped key pages as markdown files mirroring their URL
// paths. Pages are staged in baseDir/name.tmp and moved to baseDir/name on
// Commit, replacing the previous run's pages.
type PageArchive struct {
	baseDir string
	name    string
}

// NewPageArchive creates a new PageArchive.
func NewPageArchive(baseDir, name string) *PageArchive {
	return &PageArchive{
		baseDir: baseDir,
		name:    name,
	}
}

func (a *PageArchive) tempDir() string {
	return filepath.Join(a.baseDir, a.name+".tmp")
}

func (a *PageArchive) finalDir() string {
	return filepath.Join(a.baseDir, a.name)
}

func (a *PageArchive) Save(_ context.Context, page *chatad.ScrapedPage) error {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(a.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatPage(page)), 0644)
}

func (a *PageArchive) Commit() error {
	if err := os.RemoveAll(a.finalDir()); err != nil {
		return err
	}
	return os.Rename(a.tempDir(), a.finalDir())
}

func (a *PageArchive) Abort() error {
	return os.RemoveAll(a.tempDir())
}

// FormatPage formats a scraped page with YAML frontmatter.
func FormatPage(page *chatad.ScrapedPage) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\nscraped: ")
	b.WriteString(page.ScrapedAt.UTC().Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Markdown)
	return b.String()
}

// URLToPath converts a page URL to a relative file path.
// Example: https://adni.loni.usc.edu/data-samples/access → data-samples/access.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", chatad.Errorf(chatad.EINVALID, "invalid page URL %q", rawURL)
	}

	path := u.Path
	if path == "" || path == "/" {
		return "index.md", nil
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", chatad.Errorf(chatad.EINVALID, "path traversal in page URL %q", rawURL)
		}
	}

	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}
	return path + ".md", nil
}
