package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/chatad"
	"github.com/fwojciec/chatad/goquery"
	"github.com/fwojciec/chatad/htmltomarkdown"
	chatadhttp "github.com/fwojciec/chatad/http"
	"github.com/fwojciec/chatad/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown with absolute document links", func(t *testing.T) {
		t.Parallel()

		// Given a documentation page with relative links
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>
<h1>Documentation</h1>
<p><a href="/uploads/ADNI3_MRI_Manual.pdf">ADNI3 MRI Analysis Manual</a></p>
</body></html>`))
		}))
		defer server.Close()

		scraper := chatadhttp.NewScraper(goquery.NewLinkResolver(), htmltomarkdown.NewConverter())

		// When scraped
		md, err := scraper.Scrape(context.Background(), server.URL+"/methods/documentation")

		// Then the link titles can be extracted against absolute URLs
		require.NoError(t, err)
		titles := chatad.ExtractLinkTitles(md)
		assert.Equal(t, "ADNI3 MRI Analysis Manual", titles[server.URL+"/uploads/ADNI3_MRI_Manual.pdf"])
	})

	t.Run("passes the page URL to the resolver", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<p>hi</p>"))
		}))
		defer server.Close()

		var gotURL string
		scraper := chatadhttp.NewScraper(
			&mock.LinkResolver{ResolveLinksFn: func(html, pageURL string) (string, error) {
				gotURL = pageURL
				return html, nil
			}},
			&mock.Converter{ConvertFn: func(html string) (string, error) { return "md:" + html, nil }},
		)

		md, err := scraper.Scrape(context.Background(), server.URL+"/about")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/about", gotURL)
		assert.Equal(t, "md:<p>hi</p>", md)
	})

	t.Run("fails on error status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		scraper := chatadhttp.NewScraper(goquery.NewLinkResolver(), htmltomarkdown.NewConverter())

		_, err := scraper.Scrape(context.Background(), server.URL)

		assert.Equal(t, chatad.EUNAVAILABLE, chatad.ErrorCode(err))
	})
}
