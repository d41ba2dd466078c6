package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// closeTimeout bounds page and browser cleanup, which runs on a fresh
// context so it still works after the scrape deadline has passed.
const closeTimeout = 5 * time.Second

// RodScraper uses a real browser (via rod) to render JS-heavy pages
// before reading their meta tags. With BrowserURL set it attaches to a
// shared remote browser and only closes its own page; otherwise it
// launches a local browser per scrape.
type RodScraper struct {
	BrowserURL string
	Timeout    time.Duration
}

func NewRodScraper(browserURL string, timeout time.Duration) *RodScraper {
	return &RodScraper{BrowserURL: browserURL, Timeout: timeout}
}

func (r *RodScraper) Scrape(ctx context.Context, req Request) (*Result, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "http"
	}

	timeout := r.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	controlURL := r.BrowserURL
	if controlURL == "" {
		l := launcher.New().Context(ctx)
		controlURL, err = l.Launch()
		if err != nil {
			return nil, err
		}
		defer l.Kill()
	} else {
		controlURL, err = launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, err
		}
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	if r.BrowserURL == "" {
		defer func() { _ = browser.Context(context.Background()).Timeout(closeTimeout).Close() }()
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Context(context.Background()).Timeout(closeTimeout).Close() }()

	if req.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: req.UserAgent}); err != nil {
			return nil, err
		}
	}

	if err := page.Navigate(u.String()); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	htmlStr, err := page.HTML()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	finalURL := u.String()
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &Result{
		URL:    finalURL,
		Status: 200,
		Engine: "browser",
		Meta:   ExtractPageMeta(doc),
	}, nil
}
