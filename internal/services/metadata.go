package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"metagrab/internal/config"
	"metagrab/internal/instagram"
	"metagrab/internal/metrics"
	"metagrab/internal/model"
	"metagrab/internal/scraper"
	"metagrab/internal/source"
	"metagrab/internal/youtube"
)

// ErrURLRequired is the validation failure for an empty URL.
var ErrURLRequired = ValidationError("URL is required")

// MetadataResult wraps the unified document with details about how it
// was produced, for response headers and request logs.
type MetadataResult struct {
	Metadata *model.Metadata
	Source   source.Kind
	Strategy string

	// CategoryKind is set for YouTube results, where the meaning of
	// category depends on the strategy.
	CategoryKind youtube.CategoryKind
}

// MetadataService classifies a URL, runs the matching fetcher and
// normalizes its payload.
type MetadataService interface {
	Fetch(ctx context.Context, rawURL string) (*MetadataResult, error)
}

// Deps are the collaborators of the metadata service.
type Deps struct {
	Config    *config.Config
	Instagram instagram.Extractor
	YouTube   youtube.Fetcher
	Generic   scraper.Scraper
	Logger    *slog.Logger
}

type metadataService struct {
	Deps
}

// NewMetadataService constructs a MetadataService from explicit deps.
func NewMetadataService(d Deps) MetadataService {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &metadataService{Deps: d}
}

// NewMetadataServiceFromConfig wires the production fetchers.
func NewMetadataServiceFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (MetadataService, error) {
	yt, err := youtube.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ig := instagram.NewClient(instagram.Options{
		BaseURL:   cfg.Instagram.BaseURL,
		DocID:     cfg.Instagram.DocID,
		AppID:     cfg.Instagram.AppID,
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   time.Duration(cfg.Instagram.TimeoutMs) * time.Millisecond,
	})

	timeout := time.Duration(cfg.Scraper.TimeoutMs) * time.Millisecond
	var generic scraper.Scraper
	if cfg.Rod.Enabled {
		generic = scraper.NewRodScraper(cfg.Rod.BrowserURL, timeout)
	} else {
		generic = scraper.NewHTTPScraper(timeout).RespectRobots(cfg.Robots.Respect)
	}

	return NewMetadataService(Deps{
		Config:    cfg,
		Instagram: ig,
		YouTube:   yt,
		Generic:   generic,
		Logger:    logger,
	}), nil
}

func (s *metadataService) Fetch(ctx context.Context, rawURL string) (*MetadataResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}

	switch kind := source.Classify(rawURL); kind {
	case source.InstagramReel:
		return s.fetchInstagram(ctx, rawURL)
	case source.YouTubeShort:
		return s.fetchYouTube(ctx, rawURL)
	default:
		return s.fetchGeneric(ctx, rawURL)
	}
}

func (s *metadataService) fetchInstagram(ctx context.Context, rawURL string) (*MetadataResult, error) {
	const strategy = "graphql"

	post, err := s.Instagram.Fetch(ctx, rawURL)
	if err != nil {
		kind := KindUpstream
		if errors.Is(err, instagram.ErrNoShortcode) {
			kind = KindValidation
		}
		return nil, s.fail(model.PlatformInstagram, strategy, kind, err.Error(), err)
	}

	metrics.RecordFetch(string(model.PlatformInstagram), strategy, "success")
	return &MetadataResult{
		Metadata: NormalizeInstagram(post, rawURL),
		Source:   source.InstagramReel,
		Strategy: strategy,
	}, nil
}

func (s *metadataService) fetchYouTube(ctx context.Context, rawURL string) (*MetadataResult, error) {
	strategy := s.YouTube.Name()
	if af, ok := s.YouTube.(youtube.AfterFetcher); ok {
		defer af.AfterFetch()
	}

	v, err := s.YouTube.Fetch(ctx, rawURL)
	if err != nil {
		kind := KindUpstream
		switch {
		case errors.Is(err, youtube.ErrNotConfigured):
			kind = KindConfig
		case errors.Is(err, youtube.ErrInvalidURL), errors.Is(err, youtube.ErrNoVideoID):
			kind = KindValidation
		case errors.Is(err, youtube.ErrNotFound):
			kind = KindNotFound
		}
		return nil, s.fail(model.PlatformYouTube, strategy, kind, err.Error(), err)
	}

	metrics.RecordFetch(string(model.PlatformYouTube), strategy, "success")
	return &MetadataResult{
		Metadata:     NormalizeYouTube(v, rawURL),
		Source:       source.YouTubeShort,
		Strategy:     strategy,
		CategoryKind: v.CategoryKind,
	}, nil
}

func (s *metadataService) fetchGeneric(ctx context.Context, rawURL string) (*MetadataResult, error) {
	req := scraper.BuildRequestFromOptions(scraper.RequestOptions{
		URL:       rawURL,
		TimeoutMs: s.Config.Scraper.TimeoutMs,
		UserAgent: s.Config.Scraper.UserAgent,
		Languages: s.Config.Scraper.Languages,
		Headers:   s.Config.Scraper.Headers,
	})

	res, err := s.Generic.Scrape(ctx, req)
	engine := "http"
	if _, ok := s.Generic.(*scraper.RodScraper); ok {
		engine = "browser"
	}
	if err != nil {
		return nil, s.fail(model.PlatformGeneric, engine, KindUpstream, fmt.Sprintf("failed to fetch URL: %v", err), err)
	}

	metrics.RecordFetch(string(model.PlatformGeneric), res.Engine, "success")
	return &MetadataResult{
		Metadata: NormalizeGeneric(res.Meta, rawURL),
		Source:   source.Generic,
		Strategy: res.Engine,
	}, nil
}

func (s *metadataService) fail(platform model.Platform, strategy string, kind Kind, msg string, err error) error {
	outcome := "error"
	if kind == KindNotFound {
		outcome = "not_found"
	}
	metrics.RecordFetch(string(platform), strategy, outcome)
	s.Logger.Warn("metadata fetch failed",
		"platform", platform,
		"strategy", strategy,
		"error", err,
	)
	return newError(kind, msg, err)
}
