// Package registry holds the static per-store scraping configuration:
// base URL, CSS selector fallback lists per product field, and pagination
// rules. A Registry is built once at startup and passed to the components
// that need it, so tests can inject fake store tables.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pricewatch/internal/domain"
)

// FieldSelectors is an ordered list of candidate CSS selectors for one
// product field. The extractor applies the first selector that yields a
// non-empty match.
type FieldSelectors []string

// Joined renders the fallback list as a single CSS selector group, for
// contexts (waits, multi-value fields) where any candidate may match.
func (f FieldSelectors) Joined() string {
	return strings.Join(f, ", ")
}

// Selectors maps each product field to its selector fallback list.
type Selectors struct {
	ProductContainer FieldSelectors `json:"productContainer"`
	Name             FieldSelectors `json:"name"`
	Price            FieldSelectors `json:"price"`
	OriginalPrice    FieldSelectors `json:"originalPrice"`
	Image            FieldSelectors `json:"image"`
	Link             FieldSelectors `json:"link"`
	Brand            FieldSelectors `json:"brand"`
	Category         FieldSelectors `json:"category"`
	InStock          FieldSelectors `json:"inStock"`
	Sizes            FieldSelectors `json:"sizes"`
	Colors           FieldSelectors `json:"colors"`
}

// Pagination describes how a store's listing pages advance.
type Pagination struct {
	NextPage FieldSelectors `json:"nextPage"`
	MaxPages int            `json:"maxPages"`
}

// StoreConfig is one store's complete scraping configuration.
type StoreConfig struct {
	ID         string     `json:"id"`
	BaseURL    string     `json:"baseUrl"`
	Selectors  Selectors  `json:"selectors"`
	Pagination Pagination `json:"pagination"`

	// OutOfStockText is the marker looked for in the stock-indicator
	// element. Per-store because the phrasing varies between shops.
	OutOfStockText string `json:"outOfStockText,omitempty"`
}

const (
	defaultMaxPages       = 3
	defaultOutOfStockText = "Out of stock"
)

// Registry is an immutable store-id → StoreConfig map with a fixed
// iteration order.
type Registry struct {
	order  []string
	stores map[string]StoreConfig
}

// New builds a Registry from the given configs, preserving their order.
// Missing MaxPages and OutOfStockText get defaults.
func New(configs []StoreConfig) (*Registry, error) {
	r := &Registry{stores: make(map[string]StoreConfig, len(configs))}
	for _, cfg := range configs {
		if cfg.ID == "" {
			return nil, fmt.Errorf("store config with empty id")
		}
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("store %q: base URL is required", cfg.ID)
		}
		if len(cfg.Selectors.ProductContainer) == 0 {
			return nil, fmt.Errorf("store %q: product container selector is required", cfg.ID)
		}
		if _, exists := r.stores[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate store id %q", cfg.ID)
		}
		if cfg.Pagination.MaxPages <= 0 {
			cfg.Pagination.MaxPages = defaultMaxPages
		}
		if cfg.OutOfStockText == "" {
			cfg.OutOfStockText = defaultOutOfStockText
		}
		r.order = append(r.order, cfg.ID)
		r.stores[cfg.ID] = cfg
	}
	return r, nil
}

// LoadFile reads a JSON array of store configs from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store config file %s: %w", path, err)
	}
	var configs []StoreConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parse store config file %s: %w", path, err)
	}
	return New(configs)
}

// Lookup returns the config for a store id.
func (r *Registry) Lookup(storeID string) (StoreConfig, error) {
	cfg, ok := r.stores[storeID]
	if !ok {
		return StoreConfig{}, fmt.Errorf("%w: %s", domain.ErrUnknownStore, storeID)
	}
	return cfg, nil
}

// StoreIDs returns store ids in registration order. The comparator relies
// on this order for reproducible tie-breaks, so callers must not reorder.
func (r *Registry) StoreIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
