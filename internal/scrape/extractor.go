// Package scrape turns rendered listing pages into raw product records and
// drives the per-store pagination loop.
package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/internal/domain"
	"pricewatch/internal/registry"
)

// ExtractResult is the outcome of extracting one rendered page.
type ExtractResult struct {
	Products []domain.RawProduct
	// Skipped counts container nodes dropped for missing name or price.
	Skipped int
	// HasNextPage reports whether a non-disabled next-page control exists.
	HasNextPage bool
}

// Extract parses the rendered HTML and pulls one RawProduct per product
// container node. A node lacking both a name and a price text is skipped,
// not fatal. Field selectors are fallback lists: the first selector that
// yields a non-empty match wins.
func Extract(pageURL, html string, store registry.StoreConfig, capturedAt time.Time) (*ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	base, _ := url.Parse(pageURL)
	result := &ExtractResult{}
	sel := store.Selectors

	doc.Find(sel.ProductContainer.Joined()).Each(func(i int, node *goquery.Selection) {
		name := firstText(node, sel.Name)
		priceText := firstText(node, sel.Price)
		if name == "" || priceText == "" {
			result.Skipped++
			return
		}

		product := domain.RawProduct{
			Name:              name,
			PriceText:         priceText,
			OriginalPriceText: firstText(node, sel.OriginalPrice),
			Image:             imageURL(node, sel.Image),
			URL:               linkURL(node, sel.Link, base),
			Brand:             firstText(node, sel.Brand),
			Category:          firstText(node, sel.Category),
			InStock:           inStock(node, sel.InStock, store.OutOfStockText),
			Sizes:             allTexts(node, sel.Sizes),
			Colors:            allTexts(node, sel.Colors),
			Store:             store.ID,
			ScrapedAt:         capturedAt,
		}
		result.Products = append(result.Products, product)
	})

	result.HasNextPage = hasNextPage(doc, store.Pagination.NextPage)
	return result, nil
}

// firstText applies the selector fallback list and returns the first
// non-empty trimmed text.
func firstText(node *goquery.Selection, selectors registry.FieldSelectors) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(node.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// imageURL prefers the element's direct src attribute and falls back to
// the lazy-load data-src attribute.
func imageURL(node *goquery.Selection, selectors registry.FieldSelectors) string {
	for _, s := range selectors {
		img := node.Find(s).First()
		if img.Length() == 0 {
			continue
		}
		if src, ok := img.Attr("src"); ok && src != "" {
			return src
		}
		if src, ok := img.Attr("data-src"); ok && src != "" {
			return src
		}
	}
	return ""
}

func linkURL(node *goquery.Selection, selectors registry.FieldSelectors, base *url.URL) string {
	for _, s := range selectors {
		href, ok := node.Find(s).First().Attr("href")
		if !ok || href == "" {
			continue
		}
		if base != nil {
			if rel, err := url.Parse(href); err == nil {
				return base.ResolveReference(rel).String()
			}
		}
		return href
	}
	return ""
}

// inStock applies the stock heuristic: no stock-indicator element, or one
// whose text lacks the store's out-of-stock marker, counts as in stock.
// The marker match is a case-sensitive substring, so false readings are
// possible on stores with unusual phrasing.
func inStock(node *goquery.Selection, selectors registry.FieldSelectors, marker string) bool {
	for _, s := range selectors {
		el := node.Find(s).First()
		if el.Length() == 0 {
			continue
		}
		return !strings.Contains(el.Text(), marker)
	}
	return true
}

// allTexts collects trimmed texts across every element matched by the
// whole selector group. Used for multi-value fields (sizes, colors).
func allTexts(node *goquery.Selection, selectors registry.FieldSelectors) []string {
	if len(selectors) == 0 {
		return nil
	}
	var out []string
	node.Find(selectors.Joined()).Each(func(i int, el *goquery.Selection) {
		out = append(out, strings.TrimSpace(el.Text()))
	})
	return out
}

// hasNextPage reports whether any next-page control exists and is not
// marked disabled.
func hasNextPage(doc *goquery.Document, selectors registry.FieldSelectors) bool {
	if len(selectors) == 0 {
		return false
	}
	next := doc.Find(selectors.Joined()).First()
	return next.Length() > 0 && !next.HasClass("disabled")
}
