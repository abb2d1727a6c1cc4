// Package fetch drives headless Chrome page loads. All chromedp usage is
// isolated here so the extraction and comparison logic never depends on a
// live browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"pricewatch/internal/domain"
	"pricewatch/internal/registry"
)

// Options configures one browser session.
type Options struct {
	Headless        bool
	UserAgent       string
	NavTimeout      time.Duration
	SelectorTimeout time.Duration
	Logger          *zap.Logger
}

// Session owns one headless browser instance. It is exclusively owned by a
// single store crawl and must be released with Close on every exit path.
type Session struct {
	allocCtx        context.Context
	browserCtx      context.Context
	cancel          context.CancelFunc
	navTimeout      time.Duration
	selectorTimeout time.Duration
	logger          *zap.Logger
}

// RenderedPage is a fully-rendered DOM snapshot of one listing page.
type RenderedPage struct {
	URL        string
	Page       int
	HTML       string
	StatusCode int64
}

// NewSession launches a browser with a distinct identity: the given user
// agent and a fixed 1366x768 viewport.
func NewSession(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.SelectorTimeout <= 0 {
		opts.SelectorTimeout = 10 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1366, 768),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &Session{
		allocCtx:   allocCtx,
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		navTimeout:      opts.NavTimeout,
		selectorTimeout: opts.SelectorTimeout,
		logger:          opts.Logger,
	}, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() {
	s.cancel()
}

// ListingURL builds the listing page URL for a store, category and page
// number. Page one carries no page parameter.
func ListingURL(baseURL, category string, page int) string {
	u := fmt.Sprintf("%s/collections/%s", strings.TrimRight(baseURL, "/"), category)
	if page > 1 {
		u = fmt.Sprintf("%s?page=%d", u, page)
	}
	return u
}

// FetchPage navigates to one listing page and returns its rendered DOM.
// Navigation is bounded by the session's nav timeout and waiting for the
// product container by the selector timeout; exceeding them yields
// domain.ErrNavigationTimeout and domain.ErrSelectorTimeout respectively.
func (s *Session) FetchPage(ctx context.Context, store registry.StoreConfig, category string, page int) (*RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url := ListingURL(store.BaseURL, category, page)

	// Each page gets a fresh tab off the session's browser.
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	statusCode := watchDocumentStatus(tabCtx, s.logger)

	navCtx, cancelNav := context.WithTimeout(tabCtx, s.navTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("navigate %s: %w", url, domain.ErrNavigationTimeout)
		}
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, s.selectorTimeout)
	defer cancelWait()
	var html string
	if err := chromedp.Run(waitCtx,
		chromedp.WaitReady(store.Selectors.ProductContainer.Joined(), chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("wait for products on %s: %w", url, domain.ErrSelectorTimeout)
		}
		return nil, fmt.Errorf("wait for products on %s: %w", url, err)
	}

	rendered := &RenderedPage{URL: url, Page: page, HTML: html, StatusCode: *statusCode}
	if rendered.StatusCode >= 400 {
		s.logger.Warn("listing page returned error status",
			zap.String("url", url), zap.Int64("status", rendered.StatusCode))
	}
	return rendered, nil
}
