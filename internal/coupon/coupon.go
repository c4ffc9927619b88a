package coupon

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
)

// Result is a successful coupon validation: the code is real and yields the
// given discount against the cart subtotal.
type Result struct {
	Code           string
	DiscountAmount decimal.Decimal
}

// Validator checks a coupon code against the backend that owns coupons.
//
// No coupon backend is integrated yet. Disabled is the only implementation;
// it reports the condition as NOT_IMPLEMENTED rather than pretending codes
// are invalid, so the storefront can distinguish "bad code" from "no coupon
// support". Discount rules are owned by the future collaborator; nothing in
// this repo computes them.
type Validator interface {
	Validate(ctx context.Context, code string, cartSubtotal decimal.Decimal) (*Result, error)
}

// Disabled is the Validator used while no coupon backend exists.
type Disabled struct{}

// Validate always reports that coupons are not available.
func (Disabled) Validate(ctx context.Context, code string, cartSubtotal decimal.Decimal) (*Result, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnsupported, "coupons are not available yet")
}
