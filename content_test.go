package chatad_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/chatad"
	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	a := chatad.CacheKey("https://a.org/x.pdf")

	assert.Equal(t, a, chatad.CacheKey("https://a.org/x.pdf"))
	assert.NotEqual(t, a, chatad.CacheKey("https://a.org/X.pdf"))
	assert.Regexp(t, `^[0-9a-f]{1,16}$`, a)
}

func TestExtraction_Text(t *testing.T) {
	t.Parallel()

	t.Run("marks pages and skips empty ones", func(t *testing.T) {
		t.Parallel()

		e := &chatad.Extraction{Pages: []string{"one", "  ", "three\n"}, TotalPages: 3}

		assert.Equal(t, "[Page 1]\none\n\n[Page 3]\nthree", e.Text())
	})

	t.Run("appends a notice when pages were left out", func(t *testing.T) {
		t.Parallel()

		e := &chatad.Extraction{Pages: []string{"a", "b"}, TotalPages: 30}

		assert.Equal(t, "[Page 1]\na\n\n[Page 2]\nb\n\n[... Showing first 2 of 30 pages ...]", e.Text())
	})
}

func TestTruncateContent(t *testing.T) {
	t.Parallel()

	t.Run("leaves short text alone", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "abc", chatad.TruncateContent("abc", 3))
	})

	t.Run("cuts at the rune limit and reports the full length", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("é", 10)

		got := chatad.TruncateContent(text, 4)

		assert.Equal(t, "éééé\n\n[... Content truncated. Full document has 10 characters ...]", got)
		assert.True(t, utf8.ValidString(got))
	})
}

func TestCitation(t *testing.T) {
	t.Parallel()

	url := "https://a.org/x.pdf"

	assert.Equal(t, "Source: https://a.org/x.pdf", chatad.Citation(nil, url))
	assert.Equal(t, "Source: Manual - https://a.org/x.pdf", chatad.Citation(&chatad.DocumentEntry{AITitle: "Manual"}, url))
	assert.Equal(t, "Source: https://a.org/x.pdf - https://a.org/x.pdf", chatad.Citation(&chatad.DocumentEntry{}, url))
}
