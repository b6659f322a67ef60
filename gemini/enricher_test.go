package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/gemini"
	"github.com/fwojciec/chatad/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnricher_Enrich(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-PDF documents without downloading", func(t *testing.T) {
		t.Parallel()

		downloader := &mock.Downloader{DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
			t.Error("unexpected download")
			return nil, nil
		}}
		e := gemini.NewEnricher(nil, downloader, nil) // nil client ok for this test

		_, err := e.Enrich(context.Background(), &chatad.DocumentEntry{URL: "https://a.org/t.xlsx", FileExtension: "xlsx"})

		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})

	t.Run("propagates download errors", func(t *testing.T) {
		t.Parallel()

		downloader := &mock.Downloader{DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, chatad.Errorf(chatad.EUNAVAILABLE, "HTTP 404")
		}}
		e := gemini.NewEnricher(nil, downloader, nil)

		_, err := e.Enrich(context.Background(), &chatad.DocumentEntry{URL: "https://a.org/m.pdf", FileExtension: "pdf"})

		assert.Equal(t, chatad.EUNAVAILABLE, chatad.ErrorCode(err))
	})

	t.Run("reads only the opening pages and rejects empty text", func(t *testing.T) {
		t.Parallel()

		// Given a scanned PDF with no text layer
		var asked int
		downloader := &mock.Downloader{DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("%PDF"), nil
		}}
		extractor := &mock.TextExtractor{ExtractTextFn: func(_ []byte, maxPages int) (*chatad.Extraction, error) {
			asked = maxPages
			return &chatad.Extraction{Pages: []string{"", ""}, TotalPages: 2}, nil
		}}
		e := gemini.NewEnricher(nil, downloader, extractor)

		// When
		_, err := e.Enrich(context.Background(), &chatad.DocumentEntry{URL: "https://a.org/m.pdf", FileExtension: "pdf"})

		// Then
		assert.Equal(t, gemini.DefaultExcerptPages, asked)
		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "opening pages")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.Contains(t, config.ResponseSchema.Properties, "title")
	assert.Contains(t, config.ResponseSchema.Properties, "description")
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	doc := &chatad.DocumentEntry{URL: "https://a.org/ADNI3_MRI.pdf", Title: "ADNI3 MRI.pdf"}

	prompt := gemini.BuildUserPrompt(doc, "[Page 1]\nScanner setup")

	assert.Contains(t, prompt, "<filename>ADNI3 MRI.pdf</filename>")
	assert.Contains(t, prompt, "<source>https://a.org/ADNI3_MRI.pdf</source>")
	assert.Contains(t, prompt, "Scanner setup")
	assert.NotContains(t, prompt, "You catalog documents")
}

func TestParseEnrichment(t *testing.T) {
	t.Parallel()

	t.Run("decodes and trims", func(t *testing.T) {
		t.Parallel()

		e, err := gemini.ParseEnrichment(`{"title":" MRI Manual ","description":"Scanner protocols."}`)

		require.NoError(t, err)
		assert.Equal(t, "MRI Manual", e.Title)
		assert.Equal(t, "Scanner protocols.", e.Description)
	})

	t.Run("empty object is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseEnrichment(`{}`)

		assert.Equal(t, chatad.EUNAVAILABLE, chatad.ErrorCode(err))
	})

	t.Run("malformed JSON is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.ParseEnrichment(`not json`)

		assert.Equal(t, chatad.EINVALID, chatad.ErrorCode(err))
	})
}
