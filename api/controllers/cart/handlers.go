package cart

import (
	"context"
	"net/http"

	"github.com/nairamart/storefront-backend/api/middleware"
	"github.com/nairamart/storefront-backend/api/responses"
	"github.com/nairamart/storefront-backend/api/validators"
	cartsvc "github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/internal/cartmanager"
	"github.com/nairamart/storefront-backend/internal/catalog"
	"github.com/nairamart/storefront-backend/internal/notify"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

// ProductFetcher is the catalog surface the add-item handler consumes.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID int64) (*catalog.Product, error)
}

func resolveStore(ctx context.Context, manager *cartmanager.Manager) (*cartsvc.Store, error) {
	cartID, ok := middleware.CartIDFromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	return manager.Get(ctx, cartID)
}

// Fetch returns the current cart.
func Fetch(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), nil))
	}
}

// AddItem fetches the product from the catalog and adds it to the cart.
func AddItem(manager *cartmanager.Manager, fetcher ProductFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		var req AddItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := fetcher.GetProduct(ctx, req.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.AddItem(ctx, product, req.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// UpdateItem sets a line's quantity; zero removes the line.
func UpdateItem(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		lineID, err := validators.ParsePathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.UpdateQuantity(ctx, lineID, *req.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// RemoveItem drops a line from the cart.
func RemoveItem(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		lineID, err := validators.ParsePathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.RemoveItem(ctx, lineID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// Clear empties the cart.
func Clear(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.Clear(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// ApplyCoupon validates and applies a coupon code.
func ApplyCoupon(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		var req ApplyCouponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.ApplyCoupon(ctx, req.Code); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// RemoveCoupon clears any applied coupon.
func RemoveCoupon(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.RemoveCoupon(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}

// Recalculate runs the totals pipeline synchronously and returns the result.
// Clients call this when they need settled numbers rather than the eventual
// ones behind the calculating flag.
func Recalculate(manager *cartmanager.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, collector := notify.NewContext(r.Context())

		store, err := resolveStore(ctx, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.Recalculate(ctx)
		responses.WriteSuccess(w, toCartResponse(store.Snapshot(), collector.Notices()))
	}
}
