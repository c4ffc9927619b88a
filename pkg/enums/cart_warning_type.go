package enums

import "fmt"

// CartWarningType enumerates warning reasons surfaced with cart totals and
// checkout revalidation results.
type CartWarningType string

const (
	CartWarningTypeTaxUnavailable      CartWarningType = "tax_unavailable"
	CartWarningTypeShippingUnavailable CartWarningType = "shipping_unavailable"
	CartWarningTypePriceChanged        CartWarningType = "price_changed"
	CartWarningTypeOutOfStock          CartWarningType = "out_of_stock"
	CartWarningTypeInsufficientStock   CartWarningType = "insufficient_stock"
	CartWarningTypeProductRemoved      CartWarningType = "product_removed"
)

var validCartWarningTypes = []CartWarningType{
	CartWarningTypeTaxUnavailable,
	CartWarningTypeShippingUnavailable,
	CartWarningTypePriceChanged,
	CartWarningTypeOutOfStock,
	CartWarningTypeInsufficientStock,
	CartWarningTypeProductRemoved,
}

// String implements fmt.Stringer.
func (c CartWarningType) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CartWarningType) IsValid() bool {
	for _, candidate := range validCartWarningTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartWarningType converts raw input into a CartWarningType.
func ParseCartWarningType(value string) (CartWarningType, error) {
	for _, candidate := range validCartWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart warning type %q", value)
}
