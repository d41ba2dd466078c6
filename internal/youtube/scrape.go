package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/artyom/oembed"

	"metagrab/internal/scraper"
)

var youtubeLinkRE = regexp.MustCompile(`^((http|https)://)?(www\.|m\.)?((youtube\.com)|(youtu\.be))(/)?([a-zA-Z0-9\-\.]+)/?`)

// ScrapeFetcher reads the public watch page and its oEmbed document.
type ScrapeFetcher struct {
	client    *http.Client
	userAgent string
	linkRE    *regexp.Regexp
}

var _ Fetcher = (*ScrapeFetcher)(nil)

func NewScrapeFetcher(userAgent string, timeout time.Duration) *ScrapeFetcher {
	return &ScrapeFetcher{
		client: &http.Client{
			Timeout: timeout,
			// Follow a single redirect (youtu.be -> youtube.com, consent hops are not followed).
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 1 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: userAgent,
		linkRE:    youtubeLinkRE,
	}
}

func (f *ScrapeFetcher) Name() string { return StrategyScrape }

func (f *ScrapeFetcher) Fetch(ctx context.Context, rawURL string) (*Video, error) {
	if !f.linkRE.MatchString(rawURL) {
		return nil, ErrInvalidURL
	}

	pageURL := rawURL
	if !strings.Contains(pageURL, "://") {
		pageURL = "https://" + pageURL
	}

	body, finalURL, err := f.get(ctx, pageURL, "text/html")
	if err != nil {
		return nil, fmt.Errorf("fetch video page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse video page: %w", err)
	}

	content := func(selector string) string {
		return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
	}

	v := &Video{
		Title:        content(`meta[name="title"]`),
		Description:  content(`meta[name="description"]`),
		Keywords:     scraper.SplitKeywords(content(`meta[name="keywords"]`)),
		Category:     content(`meta[itemprop="genre"]`),
		CategoryKind: CategoryName,
		Thumbnail:    content(`meta[property="og:image"]`),
	}
	if v.Title == "" {
		v.Title = content(`meta[property="og:title"]`)
	}

	if href := doc.Find(`link[type="application/json+oembed"]`).First().AttrOr("href", ""); href != "" {
		if meta, err := f.oembed(ctx, finalURL, href); err == nil {
			v.Author = strings.TrimSpace(meta.AuthorName)
			if meta.Thumbnail != "" {
				v.Thumbnail = meta.Thumbnail
			}
			if v.Title == "" {
				v.Title = strings.TrimSpace(meta.Title)
			}
		}
	}

	return v, nil
}

func (f *ScrapeFetcher) get(ctx context.Context, target, accept string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", scraper.DefaultAcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &scraper.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, nil, err
	}
	return body, resp.Request.URL, nil
}

// oembed resolves href against the page and decodes the oEmbed document.
// When the page was served over https the endpoint is upgraded as well.
func (f *ScrapeFetcher) oembed(ctx context.Context, page *url.URL, href string) (*oembed.Metadata, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	endpoint := page.ResolveReference(ref)
	if page.Scheme == "https" && endpoint.Scheme == "http" {
		endpoint.Scheme = "https"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	meta, err := oembed.FromResponse(resp)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, errors.New("empty oembed document")
	}
	return meta, nil
}
