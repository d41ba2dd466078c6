package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxBodyBytes bounds how much of a page is read; meta tags live in <head>.
const maxBodyBytes = 5 << 20

// ErrDisallowed is returned when robots.txt forbids fetching the URL.
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// Request represents a simplified scrape request used by the scraper package.
type Request struct {
	URL       string
	Headers   map[string]string
	Timeout   time.Duration
	UserAgent string
}

// PageMeta is the raw, unprioritized set of meta values found on a page.
// Empty strings mean the tag was absent.
type PageMeta struct {
	Title       string
	Description string
	Keywords    string

	OgTitle       string
	OgDescription string
	OgImage       string
	OgSiteName    string
	OgType        string

	TwitterTitle       string
	TwitterDescription string
	TwitterImage       string
}

// Result represents the core scrape output independent of the HTTP layer.
type Result struct {
	URL    string
	Status int
	Engine string
	Meta   PageMeta
}

// Scraper defines the interface for URL scrapers.
type Scraper interface {
	Scrape(ctx context.Context, req Request) (*Result, error)
}

// StatusError reports a non-2xx answer from the scraped site.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// HTTPScraper is a basic implementation using net/http and goquery.
type HTTPScraper struct {
	client        *http.Client
	respectRobots bool
}

func NewHTTPScraper(timeout time.Duration) *HTTPScraper {
	return &HTTPScraper{
		client: &http.Client{Timeout: timeout},
	}
}

// RespectRobots makes the scraper consult robots.txt before each fetch.
func (s *HTTPScraper) RespectRobots(enabled bool) *HTTPScraper {
	s.respectRobots = enabled
	return s
}

func (s *HTTPScraper) Scrape(ctx context.Context, req Request) (*Result, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}

	if u.Scheme == "" {
		u.Scheme = "http"
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	if s.respectRobots && !robotsAllowed(ctx, s.client, u, req.UserAgent) {
		return nil, ErrDisallowed
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	return &Result{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Engine: "http",
		Meta:   ExtractPageMeta(doc),
	}, nil
}

// ExtractPageMeta collects title, description, keywords, OpenGraph and
// Twitter-card values from a parsed document.
func ExtractPageMeta(doc *goquery.Document) PageMeta {
	content := func(selector string) string {
		return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
	}

	return PageMeta{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: content("meta[name=description]"),
		Keywords:    content("meta[name=keywords]"),

		OgTitle:       content("meta[property='og:title']"),
		OgDescription: content("meta[property='og:description']"),
		OgImage:       content("meta[property='og:image']"),
		OgSiteName:    content("meta[property='og:site_name']"),
		OgType:        content("meta[property='og:type']"),

		TwitterTitle:       content("meta[name='twitter:title'],meta[property='twitter:title']"),
		TwitterDescription: content("meta[name='twitter:description'],meta[property='twitter:description']"),
		TwitterImage:       content("meta[name='twitter:image'],meta[property='twitter:image']"),
	}
}
