package chatad_test

import (
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/stretchr/testify/assert"
)

func TestExtractLinkTitles(t *testing.T) {
	t.Parallel()

	t.Run("keeps document links and trims anchor text", func(t *testing.T) {
		t.Parallel()

		md := `See the [ ADNI3 MRI Analysis Manual ](https://a.org/m.pdf) and
[About us](https://a.org/about) plus [Table](https://a.org/t.XLSX).`

		titles := chatad.ExtractLinkTitles(md)

		assert.Equal(t, map[string]string{
			"https://a.org/m.pdf":  "ADNI3 MRI Analysis Manual",
			"https://a.org/t.XLSX": "Table",
		}, titles)
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		t.Parallel()

		md := "[First](https://a.org/x.pdf) ... [Second](https://a.org/x.pdf)"

		titles := chatad.ExtractLinkTitles(md)

		assert.Equal(t, "Second", titles["https://a.org/x.pdf"])
	})

	t.Run("ignores jpg targets", func(t *testing.T) {
		t.Parallel()

		titles := chatad.ExtractLinkTitles("[Photo](https://a.org/p.jpg)")

		assert.Empty(t, titles)
	})
}

func TestApplyLinkTitles(t *testing.T) {
	t.Parallel()

	// Given
	docs := []*chatad.DocumentEntry{
		{URL: "https://a.org/m.pdf", Title: "m.pdf"},
		{URL: "https://a.org/n.pdf", Title: "n.pdf"},
	}
	titles := map[string]string{"https://a.org/m.pdf": "MRI Manual"}

	// When
	n := chatad.ApplyLinkTitles(docs, titles, "ADNI")

	// Then
	assert.Equal(t, 1, n)
	assert.Equal(t, "MRI Manual", docs[0].AITitle)
	assert.Equal(t, "ADNI Document: MRI Manual", docs[0].AIDescription)
	assert.True(t, docs[0].Enhanced)
	assert.False(t, docs[1].Enhanced)
	assert.Empty(t, docs[1].AITitle)
}

func TestMergeLinkTitles(t *testing.T) {
	t.Parallel()

	dst := map[string]string{"a": "1", "b": "2"}
	chatad.MergeLinkTitles(dst, map[string]string{"b": "3", "c": "4"})

	assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, dst)
}
