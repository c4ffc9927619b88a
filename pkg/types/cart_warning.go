package types

import "github.com/nairamart/storefront-backend/pkg/enums"

// CartWarning records a non-fatal condition attached to cart totals or to a
// checkout revalidation result.
type CartWarning struct {
	Type    enums.CartWarningType `json:"type"`
	Message string                `json:"message"`
}

// CartWarnings is the serialized list form.
type CartWarnings []CartWarning

// Has reports whether a warning of the given type is present.
func (w CartWarnings) Has(warningType enums.CartWarningType) bool {
	for _, warning := range w {
		if warning.Type == warningType {
			return true
		}
	}
	return false
}
