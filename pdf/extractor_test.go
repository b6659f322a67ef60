package pdf_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/pdf"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF renders a document with one marker word per page.
func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		doc.Cell(40, 10, fmt.Sprintf("Marker%03d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("reads every page of a short document", func(t *testing.T) {
		t.Parallel()

		ext, err := pdf.NewExtractor().ExtractText(buildPDF(t, 3), chatad.MaxExtractPages)

		require.NoError(t, err)
		assert.Equal(t, 3, ext.TotalPages)
		require.Len(t, ext.Pages, 3)
		assert.Contains(t, ext.Pages[0], "Marker001")
		assert.Contains(t, ext.Pages[2], "Marker003")
		assert.NotContains(t, ext.Text(), "Showing first")
	})

	t.Run("stops at the page limit and reports the total", func(t *testing.T) {
		t.Parallel()

		// Given a 30 page document
		data := buildPDF(t, 30)

		// When extracting with the default limit
		ext, err := pdf.NewExtractor().ExtractText(data, chatad.MaxExtractPages)

		// Then only the first 20 pages are read
		require.NoError(t, err)
		assert.Equal(t, 30, ext.TotalPages)
		assert.Len(t, ext.Pages, 20)
		assert.Contains(t, ext.Text(), "[... Showing first 20 of 30 pages ...]")
		assert.NotContains(t, ext.Text(), "Marker021")
	})

	t.Run("rejects input that is not a PDF", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewExtractor().ExtractText([]byte("<html>not a pdf</html>"), chatad.MaxExtractPages)

		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewExtractor().ExtractText(nil, chatad.MaxExtractPages)

		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})
}
