package cart

import (
	"github.com/shopspring/decimal"

	"github.com/nairamart/storefront-backend/pkg/types"
)

// Totals is the derived monetary view of the cart. It is always recomputed
// from the current items; callers never assign its fields directly.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`

	// ItemCount sums quantities; it differs from len(items), the number of
	// distinct lines.
	ItemCount int `json:"item_count"`

	// Degraded flags: the matching component failed open to zero and the
	// displayed amount may undercharge.
	TaxUnavailable      bool `json:"tax_unavailable,omitempty"`
	ShippingUnavailable bool `json:"shipping_unavailable,omitempty"`

	Warnings types.CartWarnings `json:"warnings,omitempty"`
}

func zeroTotals() Totals {
	return Totals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}

// aggregate computes the synchronous portion of the totals pipeline:
// subtotal, item count, and the per-item product discount.
func aggregate(items []LineItem) (subtotal, productDiscount decimal.Decimal, itemCount int) {
	subtotal = decimal.Zero
	productDiscount = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		productDiscount = productDiscount.Add(item.lineDiscount())
		itemCount += item.Quantity
	}
	return subtotal, productDiscount, itemCount
}
