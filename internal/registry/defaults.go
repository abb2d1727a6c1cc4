package registry

// Default returns the built-in store table. A STORES_FILE config entry
// replaces it entirely at startup.
func Default() *Registry {
	r, err := New(defaultStores())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}

func defaultStores() []StoreConfig {
	return []StoreConfig{
		{
			ID:      "mizojerseyhome",
			BaseURL: "https://mizojerseyhome.in",
			Selectors: Selectors{
				ProductContainer: FieldSelectors{".product-item", ".grid-product-item", ".product-card"},
				Name:             FieldSelectors{".product-title", ".product-name", "h3", "h4"},
				Price:            FieldSelectors{".price", ".product-price", ".money"},
				OriginalPrice:    FieldSelectors{".compare-price", ".was-price", ".original-price"},
				Image:            FieldSelectors{".product-image img", ".product-photo img", "img"},
				Link:             FieldSelectors{"a"},
				Brand:            FieldSelectors{".product-brand", ".brand"},
				Category:         FieldSelectors{".product-category", ".category"},
				InStock:          FieldSelectors{".stock-status", ".availability", ".in-stock"},
				Sizes:            FieldSelectors{".size-option", ".size-selector .size", ".variant-option"},
				Colors:           FieldSelectors{".color-option", ".color-selector .color", ".swatch"},
			},
			Pagination: Pagination{
				NextPage: FieldSelectors{".pagination .next", ".pagination-next", ".next-page"},
				MaxPages: 5,
			},
		},
		{
			ID:      "zealevince",
			BaseURL: "https://zealevince.in",
			Selectors: Selectors{
				ProductContainer: FieldSelectors{".product-card", ".product-item", ".grid-item"},
				Name:             FieldSelectors{".product-name", ".product-title", "h3", "h4"},
				Price:            FieldSelectors{".product-price", ".price", ".money"},
				OriginalPrice:    FieldSelectors{".product-compare-price", ".was-price", ".original-price"},
				Image:            FieldSelectors{".product-image img", ".product-photo img", "img"},
				Link:             FieldSelectors{"a"},
				Brand:            FieldSelectors{".product-brand", ".brand"},
				Category:         FieldSelectors{".product-category", ".category"},
				InStock:          FieldSelectors{".availability", ".stock-status", ".in-stock"},
				Sizes:            FieldSelectors{".size-selector .size", ".size-option", ".variant-option"},
				Colors:           FieldSelectors{".color-selector .color", ".color-option", ".swatch"},
			},
			Pagination: Pagination{
				NextPage: FieldSelectors{".pagination-next", ".pagination .next", ".next-page"},
				MaxPages: 3,
			},
		},
		{
			ID:      "nike",
			BaseURL: "https://www.nike.com",
			Selectors: Selectors{
				ProductContainer: FieldSelectors{".product-card", ".product-item"},
				Name:             FieldSelectors{".product-name", ".product-title"},
				Price:            FieldSelectors{".product-price", ".price"},
				OriginalPrice:    FieldSelectors{".product-compare-price", ".was-price"},
				Image:            FieldSelectors{".product-image img", ".product-photo img"},
				Link:             FieldSelectors{"a"},
				Brand:            FieldSelectors{".product-brand"},
				Category:         FieldSelectors{".product-category"},
				InStock:          FieldSelectors{".availability", ".stock-status"},
				Sizes:            FieldSelectors{".size-selector .size"},
				Colors:           FieldSelectors{".color-selector .color"},
			},
			Pagination: Pagination{
				NextPage: FieldSelectors{".pagination-next"},
				MaxPages: 3,
			},
		},
		{
			ID:      "adidas",
			BaseURL: "https://www.adidas.com",
			Selectors: Selectors{
				ProductContainer: FieldSelectors{".product-card", ".product-item"},
				Name:             FieldSelectors{".product-name", ".product-title"},
				Price:            FieldSelectors{".product-price", ".price"},
				OriginalPrice:    FieldSelectors{".product-compare-price", ".was-price"},
				Image:            FieldSelectors{".product-image img", ".product-photo img"},
				Link:             FieldSelectors{"a"},
				Brand:            FieldSelectors{".product-brand"},
				Category:         FieldSelectors{".product-category"},
				InStock:          FieldSelectors{".availability", ".stock-status"},
				Sizes:            FieldSelectors{".size-selector .size"},
				Colors:           FieldSelectors{".color-selector .color"},
			},
			Pagination: Pagination{
				NextPage: FieldSelectors{".pagination-next"},
				MaxPages: 3,
			},
		},
	}
}
