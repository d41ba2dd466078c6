// Package instagram extracts post metadata and direct media URLs for
// Instagram reels and posts through the public web GraphQL endpoint.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoShortcode is returned when the URL does not identify a post.
var ErrNoShortcode = errors.New("could not find a post shortcode in the URL")

// ErrNotFound is returned when the GraphQL query yields no media.
var ErrNotFound = errors.New("post not found or private")

// Extractor fetches a post for a shared Instagram URL.
type Extractor interface {
	Fetch(ctx context.Context, rawURL string) (*Post, error)
}

// PostInfo describes the post owner and caption.
type PostInfo struct {
	OwnerUsername string
	OwnerFullname string
	IsVerified    bool
	IsPrivate     bool
	Likes         int
	IsAd          bool
	Caption       string
}

// MediaDetail describes one media item of a post (a sidecar has several).
type MediaDetail struct {
	Type      string
	Width     int
	Height    int
	ViewCount int
	URL       string
	Thumbnail string
}

// Post is the raw extraction result before normalization.
type Post struct {
	URLList      []string
	PostInfo     PostInfo
	MediaDetails []MediaDetail
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	DocID     string
	AppID     string
	UserAgent string
	Timeout   time.Duration
}

// Client implements Extractor against instagram.com.
type Client struct {
	http *http.Client
	opts Options
}

var _ Extractor = (*Client)(nil)

func NewClient(opts Options) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
	}
}

// Fetch resolves the shortcode of rawURL and queries its media.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Post, error) {
	shortcode := Shortcode(rawURL)
	if shortcode == "" {
		return nil, ErrNoShortcode
	}

	csrf, err := c.csrfToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("csrf token: %w", err)
	}

	media, err := c.queryMedia(ctx, shortcode, csrf)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrNotFound
	}

	return media.toPost(), nil
}

// Shortcode returns the path segment following p/, reel/, reels/ or tv/.
func Shortcode(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		switch segments[i] {
		case "p", "reel", "reels", "tv":
			if segments[i+1] != "" {
				return segments[i+1]
			}
		}
	}
	return ""
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-IG-App-ID", c.opts.AppID)
}

func (c *Client) csrfToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/", nil)
	if err != nil {
		return "", err
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	for _, ck := range resp.Cookies() {
		if ck.Name == "csrftoken" && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", errors.New("csrftoken cookie missing")
}

func (c *Client) queryMedia(ctx context.Context, shortcode, csrf string) (*shortcodeMedia, error) {
	variables, err := json.Marshal(map[string]any{
		"shortcode":               shortcode,
		"fetch_tagged_user_count": nil,
		"hoisted_comment_id":      nil,
		"hoisted_reply_id":        nil,
	})
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("variables", string(variables))
	form.Set("doc_id", c.opts.DocID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/graphql/query", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRFToken", csrf)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.opts.BaseURL+"/p/"+shortcode+"/")
	req.AddCookie(&http.Cookie{Name: "csrftoken", Value: csrf})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("graphql request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	return out.Data.Media, nil
}
