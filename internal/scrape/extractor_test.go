package scrape

import (
	"testing"
	"time"

	"pricewatch/internal/registry"
)

func testStore() registry.StoreConfig {
	cfg, _ := registry.New([]registry.StoreConfig{{
		ID:      "storea",
		BaseURL: "https://a.example",
		Selectors: registry.Selectors{
			ProductContainer: registry.FieldSelectors{".product-card", ".product-item"},
			Name:             registry.FieldSelectors{".product-name", "h3"},
			Price:            registry.FieldSelectors{".price"},
			OriginalPrice:    registry.FieldSelectors{".was-price"},
			Image:            registry.FieldSelectors{".product-image img", "img"},
			Link:             registry.FieldSelectors{"a"},
			Brand:            registry.FieldSelectors{".brand"},
			Category:         registry.FieldSelectors{".category"},
			InStock:          registry.FieldSelectors{".stock-status"},
			Sizes:            registry.FieldSelectors{".size-option"},
			Colors:           registry.FieldSelectors{".color-option"},
		},
		Pagination: registry.Pagination{
			NextPage: registry.FieldSelectors{".pagination-next"},
			MaxPages: 3,
		},
	}})
	store, _ := cfg.Lookup("storea")
	return store
}

const pageURL = "https://a.example/collections/all"

var captured = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestExtract(t *testing.T) {
	store := testStore()

	t.Run("yields one product per well-formed node", func(t *testing.T) {
		html := `<html><body>
			<div class="product-card">
				<span class="product-name">Hoodie X</span>
				<span class="price">$50</span>
				<span class="was-price">$60</span>
				<span class="brand">Acme</span>
				<span class="category">Hoodies</span>
				<a href="/products/hoodie-x"></a>
				<img src="https://a.example/x.jpg"/>
				<span class="size-option"> S </span>
				<span class="size-option">M</span>
				<span class="color-option">Red</span>
			</div>
			<div class="product-card">
				<span class="product-name">Jersey Z</span>
				<span class="price">$80</span>
			</div>
		</body></html>`

		result, err := Extract(pageURL, html, store, captured)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Products) != 2 {
			t.Fatalf("products = %d, want 2", len(result.Products))
		}

		p := result.Products[0]
		if p.Name != "Hoodie X" || p.PriceText != "$50" {
			t.Errorf("product = %+v", p)
		}
		if p.OriginalPriceText != "$60" {
			t.Errorf("originalPriceText = %q, want $60", p.OriginalPriceText)
		}
		if p.Brand != "Acme" || p.Category != "Hoodies" {
			t.Errorf("brand/category = %q/%q", p.Brand, p.Category)
		}
		if p.URL != "https://a.example/products/hoodie-x" {
			t.Errorf("url = %q, want absolute product link", p.URL)
		}
		if p.Image != "https://a.example/x.jpg" {
			t.Errorf("image = %q", p.Image)
		}
		if len(p.Sizes) != 2 || p.Sizes[0] != "S" {
			t.Errorf("sizes = %v, want trimmed [S M]", p.Sizes)
		}
		if len(p.Colors) != 1 || p.Colors[0] != "Red" {
			t.Errorf("colors = %v, want [Red]", p.Colors)
		}
		if p.Store != "storea" || !p.ScrapedAt.Equal(captured) {
			t.Errorf("store/scrapedAt = %q/%v", p.Store, p.ScrapedAt)
		}
	})

	t.Run("skips nodes missing name or price", func(t *testing.T) {
		html := `<html><body>
			<div class="product-card"><span class="product-name">No price</span></div>
			<div class="product-card"><span class="price">$10</span></div>
			<div class="product-card">
				<span class="product-name">Complete</span><span class="price">$10</span>
			</div>
		</body></html>`

		result, err := Extract(pageURL, html, store, captured)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Products) != 1 {
			t.Errorf("products = %d, want 1", len(result.Products))
		}
		if result.Skipped != 2 {
			t.Errorf("skipped = %d, want 2", result.Skipped)
		}
	})

	t.Run("applies selector fallbacks in order", func(t *testing.T) {
		html := `<html><body>
			<div class="product-item">
				<h3>Fallback Name</h3>
				<span class="price">$20</span>
			</div>
		</body></html>`

		result, err := Extract(pageURL, html, store, captured)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Products) != 1 {
			t.Fatalf("products = %d, want 1", len(result.Products))
		}
		if result.Products[0].Name != "Fallback Name" {
			t.Errorf("name = %q, want h3 fallback", result.Products[0].Name)
		}
	})

	t.Run("falls back to lazy-load image attribute", func(t *testing.T) {
		html := `<html><body>
			<div class="product-card">
				<span class="product-name">Lazy</span>
				<span class="price">$30</span>
				<img data-src="https://a.example/lazy.jpg"/>
			</div>
		</body></html>`

		result, err := Extract(pageURL, html, store, captured)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Products[0].Image != "https://a.example/lazy.jpg" {
			t.Errorf("image = %q, want data-src fallback", result.Products[0].Image)
		}
	})

	t.Run("stock heuristic", func(t *testing.T) {
		t.Run("absent indicator means in stock", func(t *testing.T) {
			html := `<html><body><div class="product-card">
				<span class="product-name">A</span><span class="price">$1</span>
			</div></body></html>`
			result, _ := Extract(pageURL, html, store, captured)
			if !result.Products[0].InStock {
				t.Error("InStock = false, want true when indicator absent")
			}
		})

		t.Run("marker text means out of stock", func(t *testing.T) {
			html := `<html><body><div class="product-card">
				<span class="product-name">A</span><span class="price">$1</span>
				<span class="stock-status">Out of stock</span>
			</div></body></html>`
			result, _ := Extract(pageURL, html, store, captured)
			if result.Products[0].InStock {
				t.Error("InStock = true, want false on marker text")
			}
		})

		t.Run("indicator without marker means in stock", func(t *testing.T) {
			html := `<html><body><div class="product-card">
				<span class="product-name">A</span><span class="price">$1</span>
				<span class="stock-status">In stock</span>
			</div></body></html>`
			result, _ := Extract(pageURL, html, store, captured)
			if !result.Products[0].InStock {
				t.Error("InStock = false, want true without marker text")
			}
		})

		t.Run("per-store marker override", func(t *testing.T) {
			custom := testStore()
			custom.OutOfStockText = "Esgotado"
			html := `<html><body><div class="product-card">
				<span class="product-name">A</span><span class="price">$1</span>
				<span class="stock-status">Esgotado</span>
			</div></body></html>`
			result, _ := Extract(pageURL, html, custom, captured)
			if result.Products[0].InStock {
				t.Error("InStock = true, want false on per-store marker")
			}
		})
	})

	t.Run("next page detection", func(t *testing.T) {
		wrap := func(extra string) string {
			return `<html><body>
				<div class="product-card"><span class="product-name">A</span><span class="price">$1</span></div>
				` + extra + `</body></html>`
		}

		t.Run("present and enabled", func(t *testing.T) {
			result, _ := Extract(pageURL, wrap(`<a class="pagination-next" href="?page=2">Next</a>`), store, captured)
			if !result.HasNextPage {
				t.Error("HasNextPage = false, want true")
			}
		})

		t.Run("disabled control", func(t *testing.T) {
			result, _ := Extract(pageURL, wrap(`<a class="pagination-next disabled">Next</a>`), store, captured)
			if result.HasNextPage {
				t.Error("HasNextPage = true, want false for disabled control")
			}
		})

		t.Run("absent control", func(t *testing.T) {
			result, _ := Extract(pageURL, wrap(""), store, captured)
			if result.HasNextPage {
				t.Error("HasNextPage = true, want false when absent")
			}
		})
	})
}
