// Package gemini generates document titles and descriptions with Google
// Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/chatad"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for enrichment.
const DefaultModel = "gemini-2.5-flash"

// DefaultExcerptPages is how many leading pages of a document are shown to
// the model.
const DefaultExcerptPages = 3

// DefaultExcerptTokens bounds the excerpt sent with each request.
const DefaultExcerptTokens = 4000

// Ensure Enricher implements chatad.Enricher at compile time.
var _ chatad.Enricher = (*Enricher)(nil)

// Enricher implements chatad.Enricher by summarising the first pages of a
// PDF with Gemini structured output.
type Enricher struct {
	client     *genai.Client
	downloader chatad.Downloader
	extractor  chatad.TextExtractor

	Model         string
	ExcerptPages  int
	ExcerptTokens int

	// Tokens, if set, trims excerpts to ExcerptTokens. Without it excerpts
	// are cut at chatad.MaxContentLength characters.
	Tokens *TokenCounter
}

// NewEnricher creates a new Enricher.
func NewEnricher(client *genai.Client, downloader chatad.Downloader, extractor chatad.TextExtractor) *Enricher {
	return &Enricher{
		client:        client,
		downloader:    downloader,
		extractor:     extractor,
		Model:         DefaultModel,
		ExcerptPages:  DefaultExcerptPages,
		ExcerptTokens: DefaultExcerptTokens,
	}
}

// Enrich downloads doc, extracts its opening pages and asks the model for
// a title and a one or two sentence description. Only PDFs are supported.
func (e *Enricher) Enrich(ctx context.Context, doc *chatad.DocumentEntry) (*chatad.Enrichment, error) {
	if doc == nil || doc.URL == "" {
		return nil, chatad.Errorf(chatad.EINVALID, "document URL required")
	}
	if doc.FileExtension != "pdf" {
		return nil, chatad.Errorf(chatad.EINVALID, "cannot enrich %q documents", doc.FileExtension)
	}

	data, err := e.downloader.Download(ctx, doc.URL)
	if err != nil {
		return nil, err
	}
	ext, err := e.extractor.ExtractText(data, e.ExcerptPages)
	if err != nil {
		return nil, err
	}

	excerpt, err := e.excerpt(ctx, ext.Text())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(excerpt) == "" {
		return nil, chatad.Errorf(chatad.EINVALID, "no text in %s", doc.URL)
	}

	result, err := e.client.Models.GenerateContent(ctx, e.Model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(doc, excerpt)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return nil, chatad.Errorf(chatad.EINTERNAL, "gemini returned nil result")
	}

	return ParseEnrichment(result.Text())
}

func (e *Enricher) excerpt(ctx context.Context, text string) (string, error) {
	if e.Tokens == nil {
		return chatad.TruncateContent(text, chatad.MaxContentLength), nil
	}
	return e.Tokens.Trim(ctx, text, e.ExcerptTokens)
}

// BuildConfig returns the GenerateContentConfig for enrichment calls. The
// response is constrained to a {title, description} JSON object.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You catalog documents published by a clinical research consortium. Given the opening pages of a document, return a concise descriptive title and a one or two sentence description of what the document is for. Use only the provided text.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
			},
			Required: []string{"title", "description"},
		},
	}
}

// BuildUserPrompt builds the prompt describing doc and its excerpt.
func BuildUserPrompt(doc *chatad.DocumentEntry, excerpt string) string {
	var sb strings.Builder
	sb.WriteString("<document>\n")
	fmt.Fprintf(&sb, "<filename>%s</filename>\n", doc.Title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", doc.URL)
	fmt.Fprintf(&sb, "<content>%s</content>\n", excerpt)
	sb.WriteString("</document>")
	return sb.String()
}

// ParseEnrichment decodes a model response. A response with neither a
// title nor a description is EUNAVAILABLE.
func ParseEnrichment(text string) (*chatad.Enrichment, error) {
	var e chatad.Enrichment
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return nil, chatad.Errorf(chatad.EINVALID, "decode gemini response: %v", err)
	}
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	if e.Title == "" && e.Description == "" {
		return nil, chatad.Errorf(chatad.EUNAVAILABLE, "gemini returned an empty enrichment")
	}
	return &e, nil
}
