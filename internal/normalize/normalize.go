// Package normalize converts raw scraped text into typed product records.
// Everything here is pure; the only rejection reason is an unparsable
// price.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"pricewatch/internal/domain"
)

const (
	defaultBrand    = "Unknown"
	defaultCategory = "General"
)

// ParsePrice strips every character that is not a digit or a decimal
// point and parses the remainder as a non-negative decimal number.
// "₹2,599" parses to 2599.
func ParsePrice(text string) (float64, error) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnparsablePrice, text)
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnparsablePrice, text)
	}
	return price, nil
}

// Discount returns the integer percentage saved when price is below
// originalPrice, and nil otherwise.
func Discount(price, originalPrice float64) *int {
	if price >= originalPrice || originalPrice <= 0 {
		return nil
	}
	d := int(math.Round(100 * (originalPrice - price) / originalPrice))
	return &d
}

// Product normalizes one raw record. The error is domain.ErrUnparsablePrice
// when the price text holds no valid number; an unparsable original price
// is treated as absent, never an error.
func Product(raw domain.RawProduct) (domain.NormalizedProduct, error) {
	price, err := ParsePrice(raw.PriceText)
	if err != nil {
		return domain.NormalizedProduct{}, err
	}

	var originalPrice *float64
	var discount *int
	if raw.OriginalPriceText != "" {
		if orig, err := ParsePrice(raw.OriginalPriceText); err == nil {
			originalPrice = &orig
			discount = Discount(price, orig)
		}
	}

	brand := strings.TrimSpace(raw.Brand)
	if brand == "" {
		brand = defaultBrand
	}
	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = defaultCategory
	}

	return domain.NormalizedProduct{
		Name:          strings.TrimSpace(raw.Name),
		Price:         price,
		OriginalPrice: originalPrice,
		Discount:      discount,
		Image:         raw.Image,
		URL:           raw.URL,
		Brand:         brand,
		Category:      category,
		InStock:       raw.InStock,
		Sizes:         cleanList(raw.Sizes),
		Colors:        cleanList(raw.Colors),
		Store:         raw.Store,
		ScrapedAt:     raw.ScrapedAt,
	}, nil
}

// cleanList trims each entry and drops empties.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
