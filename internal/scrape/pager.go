package scrape

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"pricewatch/internal/domain"
	"pricewatch/internal/fetch"
	"pricewatch/internal/monitoring"
	"pricewatch/internal/registry"
)

// Fetcher produces a rendered listing page. Satisfied by *fetch.Session;
// tests supply fakes.
type Fetcher interface {
	FetchPage(ctx context.Context, store registry.StoreConfig, category string, page int) (*fetch.RenderedPage, error)
}

// Pager drives repeated fetch and extract cycles for one store until the
// page cap, a missing next-page control, an empty page, or a fetch fault.
type Pager struct {
	fetcher    Fetcher
	store      registry.StoreConfig
	pageDelay  time.Duration
	maxRetries int
	backoff    time.Duration
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// PagerOptions tunes the crawl loop.
type PagerOptions struct {
	// PageDelay is the pause between page fetches.
	PageDelay time.Duration
	// MaxRetries bounds re-fetches of a failing page before the store
	// crawl is abandoned.
	MaxRetries int
	// Backoff is the base wait before a retry; attempt n waits n times it.
	Backoff time.Duration
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// NewPager builds a Pager for one store crawl.
func NewPager(fetcher Fetcher, store registry.StoreConfig, opts PagerOptions) *Pager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	return &Pager{
		fetcher:    fetcher,
		store:      store,
		pageDelay:  opts.PageDelay,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With(zap.String("store", store.ID)),
	}
}

// Crawl walks listing pages in increasing order and accumulates raw
// products. A fetch fault ends the crawl but the products gathered so far
// are still returned alongside the error, so a crawl that dies on page 3
// keeps pages 1 and 2. Cancellation is honored at the start of each cycle.
func (p *Pager) Crawl(ctx context.Context, category string) ([]domain.RawProduct, error) {
	var all []domain.RawProduct
	maxPages := p.store.Pagination.MaxPages

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		rendered, err := p.fetchWithRetry(ctx, category, page)
		if err != nil {
			p.metrics.IncFetchErrors(p.store.ID, errorType(err))
			p.logger.Warn("store crawl terminated by fetch failure",
				zap.Int("page", page), zap.Error(err))
			return all, err
		}
		p.metrics.IncPagesFetched(p.store.ID)

		result, err := Extract(rendered.URL, rendered.HTML, p.store, time.Now().UTC())
		if err != nil {
			p.metrics.IncFetchErrors(p.store.ID, "parse_failed")
			return all, err
		}
		if result.Skipped > 0 {
			p.metrics.AddExtractionSkips(p.store.ID, result.Skipped)
			p.logger.Debug("skipped product nodes missing name or price",
				zap.Int("page", page), zap.Int("skipped", result.Skipped))
		}
		all = append(all, result.Products...)
		p.metrics.AddProductsExtracted(p.store.ID, len(result.Products))
		p.logger.Info("extracted listing page",
			zap.Int("page", page), zap.Int("products", len(result.Products)))

		if len(result.Products) == 0 || !result.HasNextPage || page == maxPages {
			break
		}
		if err := sleep(ctx, p.pageDelay); err != nil {
			return all, err
		}
	}

	return all, nil
}

// fetchWithRetry re-fetches a failing page up to maxRetries times with
// linear backoff before giving up on the store.
func (p *Pager) fetchWithRetry(ctx context.Context, category string, page int) (*fetch.RenderedPage, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			p.logger.Info("retrying page fetch",
				zap.Int("page", page), zap.Int("attempt", attempt))
			if err := sleep(ctx, time.Duration(attempt)*p.backoff); err != nil {
				return nil, err
			}
		}
		rendered, err := p.fetcher.FetchPage(ctx, p.store, category, page)
		if err == nil {
			return rendered, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrNavigationTimeout):
		return "navigation_timeout"
	case errors.Is(err, domain.ErrSelectorTimeout):
		return "selector_timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "fetch_failed"
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
