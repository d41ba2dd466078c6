package scraper

import (
	"strings"
	"time"
)

// DefaultAcceptLanguage is sent when the caller does not ask for specific
// languages, so sites do not localize meta tags by the server's geo-IP.
const DefaultAcceptLanguage = "en-US,en;q=0.9"

// RequestOptions is a higher-level set of options used to construct a
// low-level scraper.Request in a consistent way.
type RequestOptions struct {
	URL       string
	Headers   map[string]string
	TimeoutMs int
	UserAgent string
	Languages []string
}

// BuildRequestFromOptions builds a scraper.Request from RequestOptions,
// applying browser-like Accept and Accept-Language headers.
func BuildRequestFromOptions(opts RequestOptions) Request {
	headers := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": DefaultAcceptLanguage,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	if len(opts.Languages) > 0 {
		headers["Accept-Language"] = strings.Join(opts.Languages, ",")
	}

	var timeout time.Duration
	if opts.TimeoutMs > 0 {
		timeout = time.Duration(opts.TimeoutMs) * time.Millisecond
	}

	return Request{
		URL:       opts.URL,
		Headers:   headers,
		Timeout:   timeout,
		UserAgent: opts.UserAgent,
	}
}
