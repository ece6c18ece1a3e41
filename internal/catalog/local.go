package catalog

import (
	"context"
	"strings"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

// LocalCatalog is the in-memory fallback used when the product API fails or
// returns nothing. It is seeded with a representative slice of the catalog.
type LocalCatalog struct {
	products []chat.Product
}

// NewLocalCatalog creates a local catalog with the default seed data.
func NewLocalCatalog() *LocalCatalog {
	return &LocalCatalog{products: seedProducts()}
}

// NewLocalCatalogWith creates a local catalog from explicit products.
func NewLocalCatalogWith(products []chat.Product) *LocalCatalog {
	return &LocalCatalog{products: products}
}

// Search filters the seeded products by query term and filters.
func (c *LocalCatalog) Search(_ context.Context, query string, filters chat.SearchFilters, page, limit int, _ *auth.Context) ([]chat.Product, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	var matched []chat.Product
	for _, p := range c.products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(p.Category, filters.Category) {
			continue
		}
		if filters.Color != "" && !strings.EqualFold(p.Color, filters.Color) {
			continue
		}
		if filters.Size != "" && !strings.EqualFold(p.Size, filters.Size) {
			continue
		}
		matched = append(matched, p)
	}

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func seedProducts() []chat.Product {
	return []chat.Product{
		{ID: "P001", Name: "Gamis Zahra Premium", Category: "gamis", Color: "hitam", Size: "m", PriceIDR: 289000, InStock: true},
		{ID: "P002", Name: "Gamis Aisyah Syari", Category: "gamis", Color: "navy", Size: "l", PriceIDR: 325000, InStock: true},
		{ID: "P003", Name: "Dress Maryam Polos", Category: "gamis", Color: "merah", Size: "m", PriceIDR: 265000, InStock: true},
		{ID: "P004", Name: "Gamis Khadijah Motif", Category: "gamis", Color: "mocca", Size: "xl", PriceIDR: 298000, InStock: false},
		{ID: "P005", Name: "Hijab Voal Ultrafine", Category: "hijab", Color: "cream", Size: "", PriceIDR: 65000, InStock: true},
		{ID: "P006", Name: "Khimar Dua Layer", Category: "hijab", Color: "maroon", Size: "", PriceIDR: 95000, InStock: true},
		{ID: "P007", Name: "Pashmina Ceruty", Category: "hijab", Color: "hitam", Size: "", PriceIDR: 55000, InStock: true},
		{ID: "P008", Name: "Mukena Travel Parasut", Category: "perlengkapan-sholat", Color: "putih", Size: "", PriceIDR: 145000, InStock: true},
		{ID: "P009", Name: "Sajadah Bulu Lembut", Category: "perlengkapan-sholat", Color: "hijau", Size: "", PriceIDR: 85000, InStock: true},
		{ID: "P010", Name: "Tunik Hana Casual", Category: "atasan", Color: "pink", Size: "s", PriceIDR: 175000, InStock: true},
		{ID: "P011", Name: "Kemeja Koko Ar-Rayyan", Category: "atasan-pria", Color: "putih", Size: "l", PriceIDR: 155000, InStock: true},
		{ID: "P012", Name: "Rok Plisket Premium", Category: "bawahan", Color: "abu", Size: "m", PriceIDR: 125000, InStock: true},
	}
}
