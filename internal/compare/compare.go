// Package compare groups normalized products across stores and computes
// cross-store price comparisons. Everything here is a pure, deterministic
// transformation over in-memory records.
package compare

import (
	"sort"
	"strings"

	"pricewatch/internal/domain"
)

// Options configures comparison generation.
type Options struct {
	// OperatorStore is the store id whose price becomes ourPrice. When
	// the operator has no record for a key, the first record stands in.
	OperatorStore string
	// StoreOrder fixes the iteration order over the product map so
	// grouping and tie-breaks are reproducible. Usually the registry's
	// StoreIDs order.
	StoreOrder []string
}

// Comparisons builds one PriceComparison per comparison key backed by at
// least two distinct stores. Competitor lists keep insertion order; the
// best price is the minimum, first-encountered store winning ties.
func Comparisons(products map[string][]domain.NormalizedProduct, opts Options) []domain.PriceComparison {
	order := opts.StoreOrder
	if order == nil {
		order = make([]string, 0, len(products))
		for store := range products {
			order = append(order, store)
		}
		sort.Strings(order)
	}

	grouped := make(map[string][]domain.NormalizedProduct)
	var keys []string
	for _, store := range order {
		for _, p := range products[store] {
			key := domain.ComparisonKey(p.Name, p.Brand)
			if _, seen := grouped[key]; !seen {
				keys = append(keys, key)
			}
			grouped[key] = append(grouped[key], p)
		}
	}

	var comparisons []domain.PriceComparison
	for _, key := range keys {
		records := grouped[key]
		if countStores(records) < 2 {
			continue
		}
		comparisons = append(comparisons, buildComparison(key, records, opts.OperatorStore))
	}
	return comparisons
}

func countStores(records []domain.NormalizedProduct) int {
	stores := make(map[string]struct{}, len(records))
	for _, r := range records {
		stores[r.Store] = struct{}{}
	}
	return len(stores)
}

func buildComparison(key string, records []domain.NormalizedProduct, operator string) domain.PriceComparison {
	best := records[0]
	own := records[0]
	ownFound := false

	competitors := make([]domain.CompetitorPrice, 0, len(records))
	history := make([]domain.PriceHistoryEntry, 0, len(records))
	for _, r := range records {
		if r.Price < best.Price {
			best = r
		}
		if !ownFound && r.Store == operator {
			own = r
			ownFound = true
		}
		competitors = append(competitors, asCompetitorPrice(r))
		history = append(history, domain.PriceHistoryEntry{
			Date:  r.ScrapedAt,
			Price: r.Price,
			Store: r.Store,
		})
	}

	return domain.PriceComparison{
		ProductID:        key,
		ProductName:      records[0].Name,
		ProductBrand:     records[0].Brand,
		OurPrice:         own.Price,
		CompetitorPrices: competitors,
		BestPrice:        asCompetitorPrice(best),
		Savings:          own.Price - best.Price,
		PriceHistory:     history,
	}
}

func asCompetitorPrice(p domain.NormalizedProduct) domain.CompetitorPrice {
	return domain.CompetitorPrice{
		Store:         p.Store,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		URL:           p.URL,
		InStock:       p.InStock,
		LastUpdated:   p.ScrapedAt,
	}
}

// Filter narrows comparisons by case-insensitive substring matches on the
// product name and brand. Empty filters match everything.
func Filter(comparisons []domain.PriceComparison, nameSubstr, brandSubstr string) []domain.PriceComparison {
	if nameSubstr == "" && brandSubstr == "" {
		return comparisons
	}
	nameSubstr = strings.ToLower(nameSubstr)
	brandSubstr = strings.ToLower(brandSubstr)

	out := make([]domain.PriceComparison, 0, len(comparisons))
	for _, c := range comparisons {
		if nameSubstr != "" && !strings.Contains(strings.ToLower(c.ProductName), nameSubstr) {
			continue
		}
		if brandSubstr != "" && !strings.Contains(strings.ToLower(c.ProductBrand), brandSubstr) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortedByPrice returns the competitor list ordered cheapest first. The
// list at rest stays in insertion order; sorting happens on demand.
func SortedByPrice(prices []domain.CompetitorPrice) []domain.CompetitorPrice {
	sorted := make([]domain.CompetitorPrice, len(prices))
	copy(sorted, prices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})
	return sorted
}
