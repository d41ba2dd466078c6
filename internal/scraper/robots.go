package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	robotstxt "github.com/temoto/robotstxt"
)

// robotsAllowed reports whether u may be fetched by userAgent. Any failure
// to obtain robots.txt counts as allowed.
func robotsAllowed(ctx context.Context, client *http.Client, u *url.URL, userAgent string) bool {
	data, err := fetchRobots(ctx, client, u, userAgent)
	if err != nil || data == nil {
		return true
	}
	return data.TestAgent(u.RequestURI(), userAgent)
}

// fetchRobots fetches and parses robots.txt for a given base URL.
func fetchRobots(ctx context.Context, client *http.Client, base *url.URL, userAgent string) (*robotstxt.RobotsData, error) {
	robotsURL := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   "/robots.txt",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("non-200 robots.txt")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512<<10))
	if err != nil {
		return nil, err
	}

	return robotstxt.FromStatusAndBytes(resp.StatusCode, body)
}
