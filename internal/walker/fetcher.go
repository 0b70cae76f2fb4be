package walker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
)

// Default fetch settings.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultDelay          = 2 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

//go:generate mockgen -source=fetcher.go -destination=../testutils/mocks/walker/fetcher.go -package=walker

// Fetcher loads one listing page and returns its blocks.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]lead.RawBlock, error)
}

// FetchConfig configures the HTTP side of a walk.
type FetchConfig struct {
	UserAgent      string
	Delay          time.Duration
	RandomDelay    time.Duration
	RequestTimeout time.Duration
	Blocks         BlockOptions
}

// CollyFetcher fetches pages with a colly collector. Requests are issued
// one at a time; the limit rule spaces them by Delay.
type CollyFetcher struct {
	base *colly.Collector
	opts BlockOptions
}

// NewCollyFetcher builds the shared collector.
func NewCollyFetcher(cfg FetchConfig) (*CollyFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		// Retries revisit the same URL; the visited store decides what is skipped.
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", err)
	}
	return &CollyFetcher{base: c, opts: cfg.Blocks}, nil
}

// Fetch visits pageURL. A non-2xx answer is a *retry.StatusError.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) ([]lead.RawBlock, error) {
	var blocks []lead.RawBlock
	err := f.visit(ctx, pageURL, func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript").Remove()
		blocks = Blocks(e.DOM, pageURL, f.opts)
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// visit runs one request on a clone of the shared collector, so the rate
// limit holds across Fetch and FetchContactPage.
func (f *CollyFetcher) visit(ctx context.Context, pageURL string, onHTML colly.HTMLCallback) error {
	c := f.base.Clone()
	c.Context = ctx

	var status int
	c.OnHTML("html", onHTML)
	c.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	if err := c.Visit(pageURL); err != nil {
		if status >= http.StatusBadRequest {
			return &retry.StatusError{URL: pageURL, Code: status}
		}
		return fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return nil
}
