package walker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/visited"
)

// Page is one fetched listing page.
type Page struct {
	URL    string
	Blocks []lead.RawBlock
}

// Stats count what a walk did with its pages.
type Stats struct {
	Fetched int
	Failed  int
	Skipped int
	Blocks  int
}

// Walker visits listing pages in order. A page that keeps failing is
// logged and skipped; the walk only stops when ctx ends or the page
// handler returns an error.
type Walker struct {
	fetcher Fetcher
	store   visited.Store
	retry   retry.Config
	metrics *metrics.Metrics
	log     logger.Interface
}

// NewWalker wires a fetcher to a visited store. A nil store remembers
// pages for this process only.
func NewWalker(f Fetcher, store visited.Store, rc retry.Config, m *metrics.Metrics, log logger.Interface) *Walker {
	if store == nil {
		store = visited.NewMemoryStore()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Walker{fetcher: f, store: store, retry: rc, metrics: m, log: log.WithComponent("walker")}
}

// Walk fetches each URL and hands its blocks to handle. A page is marked
// visited only after handle accepts it.
func (w *Walker) Walk(ctx context.Context, urls []string, handle func(Page) error) (Stats, error) {
	var stats Stats
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		seen, err := w.store.Seen(ctx, u)
		if err != nil {
			w.log.Warn("Visited check failed, fetching anyway", "url", u, "error", err)
		}
		if seen {
			w.log.Debug("Skipping already visited page", "url", u)
			stats.Skipped++
			w.metrics.RecordPage(metrics.PageSkipped)
			continue
		}

		start := time.Now()
		var blocks []lead.RawBlock
		err = retry.Do(ctx, w.retry, func(attempt int) error {
			if attempt > 1 {
				w.log.Info("Retrying page", "url", u, "attempt", attempt)
			}
			var fetchErr error
			blocks, fetchErr = w.fetcher.Fetch(ctx, u)
			return fetchErr
		})
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, retry.ErrContextCancelled) {
				return stats, ctx.Err()
			}
			w.log.Error("Page failed", "url", u, "error", err)
			stats.Failed++
			w.metrics.RecordPage(metrics.PageFailed)
			continue
		}

		stats.Fetched++
		stats.Blocks += len(blocks)
		w.metrics.RecordPage(metrics.PageFetched)
		w.log.Info("Page fetched", "url", u, "blocks", len(blocks), "duration", time.Since(start))

		if err := handle(Page{URL: u, Blocks: blocks}); err != nil {
			return stats, fmt.Errorf("handle %s: %w", u, err)
		}
		if err := w.store.Mark(ctx, u); err != nil {
			w.log.Warn("Could not mark page visited", "url", u, "error", err)
		}
	}
	return stats, nil
}
