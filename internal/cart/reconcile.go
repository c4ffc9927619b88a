package cart

import (
	"context"
	"fmt"

	"github.com/nairamart/storefront-backend/internal/catalog"
	"github.com/nairamart/storefront-backend/pkg/enums"
	"github.com/nairamart/storefront-backend/pkg/types"
)

// Reconcile replays the cart against fresh catalog state before payment.
// Lines whose product is gone or unpurchasable are dropped, quantities above
// known stock are clamped, and price snapshots are refreshed. The map holds
// one entry per product in the cart; a nil value means the catalog no longer
// has the product.
//
// The returned warnings describe every adjustment made. A non-empty result
// means the cart the shopper reviewed is not the cart that would be charged.
func (s *Store) Reconcile(ctx context.Context, products map[int64]*catalog.Product) types.CartWarnings {
	var warnings types.CartWarnings

	s.mu.Lock()
	kept := s.items[:0]
	for i := range s.items {
		item := s.items[i]
		product := products[item.ProductID]

		if product == nil {
			warnings = append(warnings, types.CartWarning{
				Type:    enums.CartWarningTypeProductRemoved,
				Message: fmt.Sprintf("%s is no longer available and was removed", item.Name),
			})
			continue
		}
		if !product.StockStatus.Purchasable() {
			warnings = append(warnings, types.CartWarning{
				Type:    enums.CartWarningTypeOutOfStock,
				Message: fmt.Sprintf("%s is out of stock and was removed", item.Name),
			})
			continue
		}

		if product.StockQuantity != nil && item.Quantity > *product.StockQuantity {
			if *product.StockQuantity < 1 {
				warnings = append(warnings, types.CartWarning{
					Type:    enums.CartWarningTypeOutOfStock,
					Message: fmt.Sprintf("%s is out of stock and was removed", item.Name),
				})
				continue
			}
			warnings = append(warnings, types.CartWarning{
				Type: enums.CartWarningTypeInsufficientStock,
				Message: fmt.Sprintf("Only %d of %s available; quantity was reduced",
					*product.StockQuantity, item.Name),
			})
			item.Quantity = *product.StockQuantity
		}

		price, regular, sale, err := pricing(product)
		if err == nil {
			if !price.Equal(item.Price) {
				warnings = append(warnings, types.CartWarning{
					Type:    enums.CartWarningTypePriceChanged,
					Message: fmt.Sprintf("The price of %s changed from %s to %s", item.Name, item.Price.StringFixed(2), price.StringFixed(2)),
				})
			}
			item.Price = price
			item.RegularPrice = regular
			item.SalePrice = sale
		}
		item.StockStatus = product.StockStatus
		item.StockQuantity = copyIntPtr(product.StockQuantity)

		kept = append(kept, item)
	}
	s.items = kept
	s.mu.Unlock()

	if len(warnings) > 0 {
		s.persist(ctx)
		s.scheduleRecalc(ctx)
		for _, warning := range warnings {
			s.notifier.Notify(ctx, types.WarningNotice(warning.Message))
		}
	}
	return warnings
}
