package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"metagrab/internal/housekeeping"
)

const (
	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20250222.10.00"
)

type innertubeRequest struct {
	VideoID        string           `json:"videoId"`
	Context        innertubeContext `json:"context"`
	RacyCheckOk    bool             `json:"racyCheckOk"`
	ContentCheckOk bool             `json:"contentCheckOk"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type innertubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type innertubePlayerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID          string   `json:"videoId"`
		Title            string   `json:"title"`
		ShortDescription string   `json:"shortDescription"`
		Author           string   `json:"author"`
		Keywords         []string `json:"keywords"`
		Thumbnail        struct {
			Thumbnails []innertubeThumbnail `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			Category string `json:"category"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

// InnertubeFetcher calls the unofficial player endpoint the YouTube web
// client uses. With DumpDir set, every raw player response is written to
// disk for debugging; Sweeper removes those files after each fetch.
type InnertubeFetcher struct {
	client    *http.Client
	endpoint  string
	userAgent string

	DumpDir string
	Sweeper *housekeeping.Sweeper
	Logger  *slog.Logger
}

var (
	_ Fetcher      = (*InnertubeFetcher)(nil)
	_ AfterFetcher = (*InnertubeFetcher)(nil)
)

func NewInnertubeFetcher(endpoint, userAgent string, timeout time.Duration) *InnertubeFetcher {
	return &InnertubeFetcher{
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		userAgent: userAgent,
	}
}

func (f *InnertubeFetcher) Name() string { return StrategyInnertube }

func (f *InnertubeFetcher) Fetch(ctx context.Context, rawURL string) (*Video, error) {
	id := VideoID(rawURL)
	if id == "" {
		return nil, ErrNoVideoID
	}

	payload, err := json.Marshal(innertubeRequest{
		VideoID: id,
		Context: innertubeContext{Client: innertubeClient{
			ClientName:    innertubeClientName,
			ClientVersion: innertubeClientVersion,
			Hl:            "en",
			Gl:            "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	endpoint := f.endpoint
	if !strings.Contains(endpoint, "?") {
		endpoint += "?prettyPrint=false"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("X-Youtube-Client-Name", "1")
	req.Header.Set("X-Youtube-Client-Version", innertubeClientVersion)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube player: status %d", resp.StatusCode)
	}

	f.dump(body)

	var pr innertubePlayerResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if pr.VideoDetails == nil {
		if st := pr.PlayabilityStatus.Status; st != "" && st != "OK" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(st+" "+pr.PlayabilityStatus.Reason))
		}
		return nil, fmt.Errorf("innertube player: response has no video details")
	}

	d := pr.VideoDetails
	return &Video{
		Title:        d.Title,
		Description:  d.ShortDescription,
		Author:       d.Author,
		Category:     pr.Microformat.PlayerMicroformatRenderer.Category,
		CategoryKind: CategoryName,
		Keywords:     d.Keywords,
		Thumbnail:    largestThumbnail(d.Thumbnail.Thumbnails),
	}, nil
}

// AfterFetch schedules removal of debug dumps.
func (f *InnertubeFetcher) AfterFetch() {
	if f.Sweeper != nil {
		f.Sweeper.Schedule()
	}
}

func (f *InnertubeFetcher) dump(body []byte) {
	if f.DumpDir == "" {
		return
	}
	name := filepath.Join(f.DumpDir, fmt.Sprintf("%d-player-script.json", time.Now().UnixMilli()))
	if err := os.WriteFile(name, body, 0o644); err != nil && f.Logger != nil {
		f.Logger.Debug("innertube debug dump failed", "path", name, "error", err)
	}
}

func largestThumbnail(thumbs []innertubeThumbnail) string {
	best := ""
	bestArea := -1
	for _, t := range thumbs {
		if area := t.Width * t.Height; t.URL != "" && area > bestArea {
			best, bestArea = t.URL, area
		}
	}
	return best
}
