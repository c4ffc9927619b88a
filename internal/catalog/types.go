package catalog

import "github.com/nairamart/storefront-backend/pkg/enums"

// Product mirrors the WooCommerce product payload consumed by the cart.
// Prices arrive as decimal strings; an absent sale_price is the empty string.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	SKU           string            `json:"sku"`
	Price         string            `json:"price"`
	RegularPrice  string            `json:"regular_price"`
	SalePrice     string            `json:"sale_price"`
	StockStatus   enums.StockStatus `json:"stock_status"`
	StockQuantity *int              `json:"stock_quantity"`
	Images        []ProductImage    `json:"images"`
	Store         *StoreAttribution `json:"store,omitempty"`
}

// ProductImage is one catalog image; the first entry is the cart thumbnail.
type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// StoreAttribution names the marketplace vendor that listed the product.
type StoreAttribution struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Thumbnail returns the first image source, or empty when the product has none.
func (p *Product) Thumbnail() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}
