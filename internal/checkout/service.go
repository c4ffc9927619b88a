// Package checkout revalidates a cart against the live catalog at the moment
// of payment. Cart pricing is built from snapshots taken at add time;
// checkout is where those snapshots are reconciled with reality before any
// money moves.
package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/internal/catalog"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/logger"
)

// ProductFetcher is the catalog surface checkout consumes.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID int64) (*catalog.Product, error)
}

// Service runs checkout revalidation.
type Service struct {
	catalog ProductFetcher
	logg    *logger.Logger
}

// NewService builds the checkout service.
func NewService(fetcher ProductFetcher, logg *logger.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("product fetcher required")
	}
	return &Service{catalog: fetcher, logg: logg}, nil
}

// Result is the outcome of a revalidation pass.
type Result struct {
	// Ready is true when the cart survived revalidation unchanged and can
	// proceed to payment.
	Ready    bool          `json:"ready"`
	Cart     cart.Snapshot `json:"cart"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Confirmation acknowledges a completed checkout.
type Confirmation struct {
	Reference string        `json:"reference"`
	Cart      cart.Snapshot `json:"cart"`
}

// Validate fetches every cart product fresh and reconciles the cart against
// it. Unlike cart totals, revalidation fails closed: if the catalog cannot
// answer, checkout does not proceed on stale data.
func (s *Service) Validate(ctx context.Context, store *cart.Store) (*Result, error) {
	snapshot := store.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	products := make(map[int64]*catalog.Product, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if _, done := products[item.ProductID]; done {
			continue
		}
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				products[item.ProductID] = nil
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify cart against catalog")
		}
		products[item.ProductID] = product
	}

	warnings := store.Reconcile(ctx, products)
	totals := store.Recalculate(ctx)

	result := &Result{
		Ready: len(warnings) == 0,
		Cart:  store.Snapshot(),
	}
	result.Cart.Totals = totals
	for _, warning := range warnings {
		result.Warnings = append(result.Warnings, warning.Message)
	}
	return result, nil
}

// Complete revalidates and, when the cart is unchanged, clears it and issues
// a confirmation reference. A cart that changed under the shopper is a
// conflict: they must review before paying again.
func (s *Service) Complete(ctx context.Context, store *cart.Store) (*Confirmation, error) {
	result, err := s.Validate(ctx, store)
	if err != nil {
		return nil, err
	}
	if !result.Ready {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart changed during checkout, review before paying").
			WithDetails(result.Warnings)
	}

	confirmation := &Confirmation{
		Reference: uuid.NewString(),
		Cart:      result.Cart,
	}
	if err := store.Clear(ctx); err != nil {
		return nil, err
	}
	if s.logg != nil {
		lctx := s.logg.WithCartID(ctx, store.ID())
		s.logg.Info(lctx, "checkout completed and cart cleared")
	}
	return confirmation, nil
}
