package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyNGN is the only currency the storefront trades in.
const CurrencyNGN = "NGN"

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Parse converts a WooCommerce decimal string into an amount. Empty strings
// are valid and mean "no value" (e.g. sale_price on a product not on sale).
func Parse(value string) (decimal.Decimal, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, false, nil
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, true, nil
}

// MustParse is a test/bootstrap helper that panics on malformed input.
func MustParse(value string) decimal.Decimal {
	amount, ok, err := Parse(value)
	if err != nil {
		panic(err)
	}
	if !ok {
		return decimal.Zero
	}
	return amount
}

// String renders an amount with two decimal places, the wire format the
// storefront API uses for every monetary field.
func String(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}

// NonNegative clamps negative amounts to zero. Derived monetary values
// (discounts, taxes) must never go below zero whatever the inputs.
func NonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return amount
}
