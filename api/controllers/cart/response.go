package cart

import (
	cartsvc "github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/pkg/types"
)

// ItemResponse is one cart line on the wire. Money is serialized as fixed
// two-decimal strings, never floats.
type ItemResponse struct {
	ID            string  `json:"id"`
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Image         string  `json:"image,omitempty"`
	SKU           string  `json:"sku,omitempty"`
	Price         string  `json:"price"`
	RegularPrice  string  `json:"regular_price"`
	SalePrice     *string `json:"sale_price,omitempty"`
	Quantity      int     `json:"quantity"`
	LineTotal     string  `json:"line_total"`
	StockStatus   string  `json:"stock_status"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
	VendorName    string  `json:"vendor_name,omitempty"`
}

// TotalsResponse is the derived totals block.
type TotalsResponse struct {
	Currency            string             `json:"currency"`
	Subtotal            string             `json:"subtotal"`
	Discount            string             `json:"discount"`
	Tax                 string             `json:"tax"`
	Shipping            string             `json:"shipping"`
	Total               string             `json:"total"`
	ItemCount           int                `json:"item_count"`
	TaxUnavailable      bool               `json:"tax_unavailable,omitempty"`
	ShippingUnavailable bool               `json:"shipping_unavailable,omitempty"`
	Warnings            types.CartWarnings `json:"warnings,omitempty"`
}

// CartResponse is the full cart payload.
type CartResponse struct {
	CartID      string         `json:"cart_id"`
	Items       []ItemResponse `json:"items"`
	CouponCode  string         `json:"coupon_code,omitempty"`
	Totals      TotalsResponse `json:"totals"`
	Calculating bool           `json:"calculating"`
	Notices     []types.Notice `json:"notices,omitempty"`
}

const currencyCode = "NGN"

func toItemResponse(item cartsvc.LineItem) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID.String(),
		ProductID:     item.ProductID,
		Name:          item.Name,
		Slug:          item.Slug,
		Image:         item.Image,
		SKU:           item.SKU,
		Price:         item.Price.StringFixed(2),
		RegularPrice:  item.RegularPrice.StringFixed(2),
		Quantity:      item.Quantity,
		LineTotal:     item.LineTotal().StringFixed(2),
		StockStatus:   item.StockStatus.String(),
		StockQuantity: item.StockQuantity,
		VendorName:    item.VendorName,
	}
	if item.SalePrice != nil {
		sale := item.SalePrice.StringFixed(2)
		resp.SalePrice = &sale
	}
	return resp
}

func toTotalsResponse(totals cartsvc.Totals) TotalsResponse {
	return TotalsResponse{
		Currency:            currencyCode,
		Subtotal:            totals.Subtotal.StringFixed(2),
		Discount:            totals.Discount.StringFixed(2),
		Tax:                 totals.Tax.StringFixed(2),
		Shipping:            totals.Shipping.StringFixed(2),
		Total:               totals.Total.StringFixed(2),
		ItemCount:           totals.ItemCount,
		TaxUnavailable:      totals.TaxUnavailable,
		ShippingUnavailable: totals.ShippingUnavailable,
		Warnings:            totals.Warnings,
	}
}

func toCartResponse(snapshot cartsvc.Snapshot, notices []types.Notice) CartResponse {
	items := make([]ItemResponse, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, toItemResponse(item))
	}
	return CartResponse{
		CartID:      snapshot.ID,
		Items:       items,
		CouponCode:  snapshot.CouponCode,
		Totals:      toTotalsResponse(snapshot.Totals),
		Calculating: snapshot.Calculating,
		Notices:     notices,
	}
}
