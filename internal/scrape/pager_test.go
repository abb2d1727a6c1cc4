package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pricewatch/internal/domain"
	"pricewatch/internal/fetch"
	"pricewatch/internal/registry"
)

// pageHTML renders a minimal listing page with n products and, optionally,
// a next-page control.
func pageHTML(n int, hasNext bool) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<div class="product-card"><span class="product-name">Item %d</span><span class="price">$%d</span></div>`, i, 10+i)
	}
	if hasNext {
		b.WriteString(`<a class="pagination-next" href="?page=2">Next</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

type fakeFetcher struct {
	pages      map[int]string
	errs       map[int]error
	failsFirst map[int]int // failures to report before a page succeeds
	calls      []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, store registry.StoreConfig, category string, page int) (*fetch.RenderedPage, error) {
	f.calls = append(f.calls, page)
	if n := f.failsFirst[page]; n > 0 {
		f.failsFirst[page] = n - 1
		return nil, fmt.Errorf("fetch page %d: %w", page, domain.ErrNavigationTimeout)
	}
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	html, ok := f.pages[page]
	if !ok {
		html = pageHTML(0, false)
	}
	return &fetch.RenderedPage{
		URL:  fetch.ListingURL(store.BaseURL, category, page),
		Page: page,
		HTML: html,
	}, nil
}

func newPager(f *fakeFetcher, retries int) *Pager {
	return NewPager(f, testStore(), PagerOptions{
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	})
}

func TestPagerCrawl(t *testing.T) {
	t.Run("walks pages up to the configured cap", func(t *testing.T) {
		f := &fakeFetcher{pages: map[int]string{
			1: pageHTML(2, true),
			2: pageHTML(2, true),
			3: pageHTML(2, true), // next present, but maxPages is 3
			4: pageHTML(2, true),
		}}
		products, err := newPager(f, 0).Crawl(context.Background(), "all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 6 {
			t.Errorf("products = %d, want 6", len(products))
		}
		if len(f.calls) != 3 {
			t.Errorf("fetch calls = %v, want pages 1-3", f.calls)
		}
	})

	t.Run("stops when the next-page control is absent", func(t *testing.T) {
		f := &fakeFetcher{pages: map[int]string{
			1: pageHTML(2, true),
			2: pageHTML(2, false),
		}}
		products, err := newPager(f, 0).Crawl(context.Background(), "all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 4 {
			t.Errorf("products = %d, want 4", len(products))
		}
		if len(f.calls) != 2 {
			t.Errorf("fetch calls = %v, want pages 1-2", f.calls)
		}
	})

	t.Run("stops on an empty page", func(t *testing.T) {
		f := &fakeFetcher{pages: map[int]string{
			1: pageHTML(2, true),
			2: pageHTML(0, true),
			3: pageHTML(2, true),
		}}
		products, err := newPager(f, 0).Crawl(context.Background(), "all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			t.Errorf("products = %d, want page 1 only", len(products))
		}
		if len(f.calls) != 2 {
			t.Errorf("fetch calls = %v, want no fetch after empty page", f.calls)
		}
	})

	t.Run("fetch fault keeps earlier pages", func(t *testing.T) {
		f := &fakeFetcher{
			pages: map[int]string{1: pageHTML(3, true)},
			errs:  map[int]error{2: fmt.Errorf("page 2: %w", domain.ErrSelectorTimeout)},
		}
		products, err := newPager(f, 0).Crawl(context.Background(), "all")
		if !errors.Is(err, domain.ErrSelectorTimeout) {
			t.Errorf("error = %v, want ErrSelectorTimeout", err)
		}
		if len(products) != 3 {
			t.Errorf("products = %d, want page 1's 3 products preserved", len(products))
		}
	})

	t.Run("retries a failing page before giving up", func(t *testing.T) {
		f := &fakeFetcher{
			pages:      map[int]string{1: pageHTML(1, true), 2: pageHTML(1, false)},
			failsFirst: map[int]int{2: 2},
		}
		products, err := newPager(f, 2).Crawl(context.Background(), "all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			t.Errorf("products = %d, want both pages after retries", len(products))
		}
	})

	t.Run("exhausted retries surface the last error", func(t *testing.T) {
		f := &fakeFetcher{
			pages:      map[int]string{1: pageHTML(1, true)},
			failsFirst: map[int]int{2: 3},
		}
		products, err := newPager(f, 1).Crawl(context.Background(), "all")
		if !errors.Is(err, domain.ErrNavigationTimeout) {
			t.Errorf("error = %v, want ErrNavigationTimeout", err)
		}
		if len(products) != 1 {
			t.Errorf("products = %d, want page 1 preserved", len(products))
		}
	})

	t.Run("honors cancellation before the next fetch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := &fakeFetcher{pages: map[int]string{1: pageHTML(1, true)}}
		products, err := newPager(f, 0).Crawl(ctx, "all")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if len(products) != 0 {
			t.Errorf("products = %d, want none", len(products))
		}
		if len(f.calls) != 0 {
			t.Errorf("fetch calls = %v, want none after cancellation", f.calls)
		}
	})
}

func TestListingURL(t *testing.T) {
	t.Run("first page has no page parameter", func(t *testing.T) {
		got := fetch.ListingURL("https://a.example", "all", 1)
		if got != "https://a.example/collections/all" {
			t.Errorf("url = %q", got)
		}
	})

	t.Run("later pages append the page parameter", func(t *testing.T) {
		got := fetch.ListingURL("https://a.example/", "sale", 3)
		if got != "https://a.example/collections/sale?page=3" {
			t.Errorf("url = %q", got)
		}
	})
}
