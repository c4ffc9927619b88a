package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nairamart/storefront-backend/internal/coupon"
	"github.com/nairamart/storefront-backend/internal/shipping"
	"github.com/nairamart/storefront-backend/pkg/types"
)

// TaxCalculator is the tax collaborator surface the cart consumes.
type TaxCalculator interface {
	Calculate(ctx context.Context, amount decimal.Decimal, taxClass, country, state string) (decimal.Decimal, error)
}

// ShippingQuoter is the shipping-rate collaborator surface the cart consumes.
type ShippingQuoter interface {
	Quote(ctx context.Context, country string, subtotal decimal.Decimal, itemCount int) ([]shipping.Rate, error)
}

// CouponValidator is the coupon collaborator surface the cart consumes.
type CouponValidator interface {
	Validate(ctx context.Context, code string, cartSubtotal decimal.Decimal) (*coupon.Result, error)
}

// Notifier receives the user-facing toast for every mutating operation. It is
// a side channel: operations also return their typed error.
type Notifier interface {
	Notify(ctx context.Context, notice types.Notice)
}

// NopNotifier drops notices; test and worker contexts use it.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, notice types.Notice) {}
