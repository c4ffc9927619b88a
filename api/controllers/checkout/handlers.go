package checkout

import (
	"net/http"

	"github.com/nairamart/storefront-backend/api/middleware"
	"github.com/nairamart/storefront-backend/api/responses"
	"github.com/nairamart/storefront-backend/internal/cartmanager"
	checkoutsvc "github.com/nairamart/storefront-backend/internal/checkout"
	"github.com/nairamart/storefront-backend/internal/notify"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

// ValidateResponse reports whether the cart survived revalidation.
type ValidateResponse struct {
	Ready    bool     `json:"ready"`
	Warnings []string `json:"warnings,omitempty"`
}

// CompleteResponse acknowledges a completed checkout.
type CompleteResponse struct {
	Reference string `json:"reference"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
}

// Validate revalidates the cart against the live catalog.
func Validate(manager *cartmanager.Manager, service *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.NewContext(r.Context())

		cartID, ok := middleware.CartIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}
		store, err := manager.Get(ctx, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Validate(ctx, store)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ValidateResponse{
			Ready:    result.Ready,
			Warnings: result.Warnings,
		})
	}
}

// Complete revalidates, clears the cart, and evicts it from memory. The
// persisted record is deleted by the clear, so the cart token now names an
// empty cart.
func Complete(manager *cartmanager.Manager, service *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.NewContext(r.Context())

		cartID, ok := middleware.CartIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}
		store, err := manager.Get(ctx, cartID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		confirmation, err := service.Complete(ctx, store)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		manager.Evict(cartID)

		responses.WriteSuccess(w, CompleteResponse{
			Reference: confirmation.Reference,
			Total:     confirmation.Cart.Totals.Total.StringFixed(2),
			ItemCount: confirmation.Cart.Totals.ItemCount,
		})
	}
}
