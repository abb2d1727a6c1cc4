package domain

import (
	"strings"
	"time"
)

// RawProduct is one scraped listing before normalization. Fields hold the
// raw selector text exactly as found in the DOM; typed parsing happens in
// the normalize package. InStock is the one exception: the stock heuristic
// needs the store's out-of-stock marker, so the extractor resolves it.
type RawProduct struct {
	Name              string
	PriceText         string
	OriginalPriceText string
	Image             string
	URL               string
	Brand             string
	Category          string
	InStock           bool
	Sizes             []string
	Colors            []string
	Store             string
	ScrapedAt         time.Time
}

// NormalizedProduct is the typed form of a listing. The JSON shape is the
// contract with the consuming web layer and must stay stable.
type NormalizedProduct struct {
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Discount      *int      `json:"discount,omitempty"`
	Image         string    `json:"image,omitempty"`
	URL           string    `json:"url,omitempty"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	InStock       bool      `json:"inStock"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Store         string    `json:"store"`
	ScrapedAt     time.Time `json:"scrapedAt"`
}

// ComparisonKey groups listings across stores by case-insensitive
// name+brand. Two distinct products sharing name and brand text collide;
// there is no SKU or product id in the scraped data to disambiguate them.
func ComparisonKey(name, brand string) string {
	return strings.ToLower(name) + "_" + strings.ToLower(brand)
}

// CompetitorPrice is one store's offer inside a PriceComparison.
type CompetitorPrice struct {
	Store         string    `json:"store"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Discount      *int      `json:"discount,omitempty"`
	URL           string    `json:"url,omitempty"`
	InStock       bool      `json:"inStock"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// PriceHistoryEntry records one store's price at capture time.
type PriceHistoryEntry struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Store string    `json:"store"`
}

// PriceComparison is the cross-store view of one product line. Savings is
// ourPrice minus bestPrice: positive means the operator is overpriced,
// zero or negative means the operator is cheapest or tied.
type PriceComparison struct {
	ProductID        string              `json:"productId"`
	ProductName      string              `json:"productName"`
	ProductBrand     string              `json:"productBrand"`
	OurPrice         float64             `json:"ourPrice"`
	CompetitorPrices []CompetitorPrice   `json:"competitorPrices"`
	BestPrice        CompetitorPrice     `json:"bestPrice"`
	Savings          float64             `json:"savings"`
	PriceHistory     []PriceHistoryEntry `json:"priceHistory"`
}

// Job states for background scrape/compare submissions.
const (
	JobQueued    = "queued"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job kinds.
const (
	JobKindScrape  = "scrape"
	JobKindCompare = "compare"
)

// JobStatus is the poll-able record for a fire-and-forget submission.
// Documents lists the sink collection names written on completion.
type JobStatus struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Store       string     `json:"store,omitempty"`
	Category    string     `json:"category,omitempty"`
	State       string     `json:"state"`
	Error       string     `json:"error,omitempty"`
	Documents   []string   `json:"documents,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
