// Package youtube fetches video metadata for YouTube Shorts. The fetch is a
// single capability (Fetcher) with interchangeable strategies chosen by
// configuration: page scraping, the innertube player API, or the official
// Data API.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"metagrab/internal/config"
	"metagrab/internal/housekeeping"
)

var (
	// ErrInvalidURL is returned when the URL is not a YouTube link.
	ErrInvalidURL = errors.New("not a valid YouTube link")
	// ErrNoVideoID is returned when no video identifier can be found.
	ErrNoVideoID = errors.New("could not extract video ID from URL")
	// ErrNotFound is returned when the platform reports no such video.
	ErrNotFound = errors.New("video not found")
	// ErrNotConfigured is returned by strategies missing required settings.
	ErrNotConfigured = errors.New("YouTube API key not configured. Set YOUTUBE_API_KEY environment variable.")
)

// CategoryKind tells consumers how to read Video.Category, which differs
// between strategies.
type CategoryKind string

const (
	CategoryName CategoryKind = "name"
	CategoryID   CategoryKind = "id"
)

// Video is the strategy-independent result of a fetch.
type Video struct {
	Title        string
	Description  string
	Author       string
	Category     string
	CategoryKind CategoryKind
	Keywords     []string
	Thumbnail    string
}

// Fetcher retrieves metadata for a YouTube URL.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (*Video, error)
}

// AfterFetcher is implemented by strategies that need housekeeping once a
// fetch has completed. AfterFetch must not block.
type AfterFetcher interface {
	AfterFetch()
}

const (
	StrategyScrape    = "scrape"
	StrategyInnertube = "innertube"
	StrategyAPI       = "api"
)

// New builds the Fetcher selected by cfg.YouTube.Strategy.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	yc := cfg.YouTube
	timeout := time.Duration(yc.TimeoutMs) * time.Millisecond

	switch strings.ToLower(strings.TrimSpace(yc.Strategy)) {
	case StrategyScrape:
		return NewScrapeFetcher(cfg.Scraper.UserAgent, timeout), nil
	case StrategyInnertube, "library":
		f := NewInnertubeFetcher(yc.InnertubeURL, cfg.Scraper.UserAgent, timeout)
		f.Logger = logger
		if yc.DebugDumps {
			f.DumpDir = yc.DebugDir
			f.Sweeper = &housekeeping.Sweeper{
				Dir:      yc.DebugDir,
				Patterns: yc.DebugPatterns,
				Delay:    time.Duration(yc.CleanupDelayMs) * time.Millisecond,
				Logger:   logger,
			}
		}
		return f, nil
	case StrategyAPI:
		return NewAPIFetcher(ctx, yc.APIKey, yc.APIEndpoint, timeout)
	default:
		return nil, fmt.Errorf("unknown youtube strategy %q (expected scrape|innertube|api)", yc.Strategy)
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
}

// VideoID pulls the 11-character video ID from a shorts, watch or
// youtu.be URL. It returns "" when none matches.
func VideoID(rawURL string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}
