package youtube

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// APIFetcher uses the official YouTube Data API v3. Its category is the
// numeric categoryId, not a display name.
type APIFetcher struct {
	svc     *ytapi.Service
	timeout time.Duration
}

var _ Fetcher = (*APIFetcher)(nil)

// NewAPIFetcher builds the Data API client. An empty apiKey is accepted:
// the fetcher then fails every request with ErrNotConfigured instead of
// preventing startup. endpoint overrides the API base URL when set.
func NewAPIFetcher(ctx context.Context, apiKey, endpoint string, timeout time.Duration) (*APIFetcher, error) {
	f := &APIFetcher{timeout: timeout}
	if apiKey == "" {
		return f, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube data api client: %w", err)
	}
	f.svc = svc
	return f, nil
}

func (f *APIFetcher) Name() string { return StrategyAPI }

func (f *APIFetcher) Fetch(ctx context.Context, rawURL string) (*Video, error) {
	if f.svc == nil {
		return nil, ErrNotConfigured
	}

	id := VideoID(rawURL)
	if id == "" {
		return nil, ErrNoVideoID
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube data api: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, ErrNotFound
	}

	sn := resp.Items[0].Snippet
	return &Video{
		Title:        sn.Title,
		Description:  sn.Description,
		Author:       sn.ChannelTitle,
		Category:     sn.CategoryId,
		CategoryKind: CategoryID,
		Keywords:     sn.Tags,
		Thumbnail:    bestThumbnail(sn.Thumbnails),
	}, nil
}

// bestThumbnail prefers maxres, then standard, high, medium and default.
func bestThumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytapi.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
