package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html lang="en"><head>
<title>  Plain Title </title>
<meta name="description" content="plain description">
<meta name="keywords" content="a, b , c">
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description">
<meta property="og:image" content="https://example.com/og.png">
<meta property="og:site_name" content="Example">
<meta property="og:type" content="article">
<meta name="twitter:title" content="Twitter Title">
<meta name="twitter:image" content="https://example.com/tw.png">
</head><body><p>hi</p></body></html>`

func TestExtractPageMeta(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	require.NoError(t, err)

	meta := ExtractPageMeta(doc)
	assert.Equal(t, "Plain Title", meta.Title)
	assert.Equal(t, "plain description", meta.Description)
	assert.Equal(t, "a, b , c", meta.Keywords)
	assert.Equal(t, "OG Title", meta.OgTitle)
	assert.Equal(t, "OG description", meta.OgDescription)
	assert.Equal(t, "https://example.com/og.png", meta.OgImage)
	assert.Equal(t, "Example", meta.OgSiteName)
	assert.Equal(t, "article", meta.OgType)
	assert.Equal(t, "Twitter Title", meta.TwitterTitle)
	assert.Empty(t, meta.TwitterDescription)
	assert.Equal(t, "https://example.com/tw.png", meta.TwitterImage)
}

func TestExtractPageMeta_TwitterProperty(t *testing.T) {
	page := `<html><head>
<meta property="twitter:title" content="TW">
<meta property="twitter:description" content="TW description">
<meta property="twitter:image" content="https://example.com/tw.png">
</head></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	meta := ExtractPageMeta(doc)
	assert.Equal(t, "TW", meta.TwitterTitle)
	assert.Equal(t, "TW description", meta.TwitterDescription)
	assert.Equal(t, "https://example.com/tw.png", meta.TwitterImage)
}

func TestHTTPScraper_SendsHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	req := BuildRequestFromOptions(RequestOptions{URL: srv.URL, UserAgent: "test-agent/1.0", TimeoutMs: 2000})
	res, err := NewHTTPScraper(5*time.Second).Scrape(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, DefaultAcceptLanguage, gotLang)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "http", res.Engine)
	assert.Equal(t, "OG Title", res.Meta.OgTitle)
}

func TestHTTPScraper_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPScraper(5*time.Second).Scrape(context.Background(), Request{URL: srv.URL})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestHTTPScraper_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := NewHTTPScraper(50*time.Millisecond).Scrape(context.Background(), Request{URL: srv.URL})
	assert.Error(t, err)
}

func TestHTTPScraper_RespectsRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := NewHTTPScraper(5 * time.Second).RespectRobots(true)

	_, err := s.Scrape(context.Background(), Request{URL: srv.URL + "/private/page", UserAgent: "bot"})
	assert.ErrorIs(t, err, ErrDisallowed)

	res, err := s.Scrape(context.Background(), Request{URL: srv.URL + "/public", UserAgent: "bot"})
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", res.Meta.Title)
}

func TestBuildRequestFromOptions_Languages(t *testing.T) {
	req := BuildRequestFromOptions(RequestOptions{
		URL:       "https://example.com",
		Languages: []string{"de-DE", "de"},
		Headers:   map[string]string{"X-Test": "1"},
		TimeoutMs: 1500,
	})
	assert.Equal(t, "de-DE,de", req.Headers["Accept-Language"])
	assert.Equal(t, "1", req.Headers["X-Test"])
	assert.Equal(t, 1500*time.Millisecond, req.Timeout)
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitKeywords("a, b , c"))
	assert.Equal(t, []string{"go", "http"}, SplitKeywords(" go ,, http, "))
	assert.Nil(t, SplitKeywords(""))
	assert.Nil(t, SplitKeywords(" , ,"))
}

func TestRodScraper_ExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRodScraper("", time.Second)
	assert.NotPanics(t, func() {
		_, err := r.Scrape(ctx, Request{URL: "https://example.com"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRodScraper_UnreachableBrowser(t *testing.T) {
	r := NewRodScraper("http://127.0.0.1:1", time.Second)
	assert.NotPanics(t, func() {
		_, err := r.Scrape(context.Background(), Request{URL: "https://example.com"})
		assert.Error(t, err)
	})
}
