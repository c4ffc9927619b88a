package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairamart/storefront-backend/internal/catalog"
	"github.com/nairamart/storefront-backend/pkg/enums"
	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/logger"
	"github.com/nairamart/storefront-backend/pkg/metrics"
	"github.com/nairamart/storefront-backend/pkg/types"
)

// DefaultMaxQuantity caps any single line item's quantity.
const DefaultMaxQuantity = 99

// Config tunes a cart store instance.
type Config struct {
	MaxQuantity int

	// Cart-page tax jurisdiction. Checkout quotes against the destination
	// address elsewhere; the cart estimates with this fixed one.
	Country  string
	State    string
	TaxClass string

	// RecalcTimeout bounds each totals recalculation, collaborator calls
	// included.
	RecalcTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxQuantity <= 0 {
		c.MaxQuantity = DefaultMaxQuantity
	}
	if c.Country == "" {
		c.Country = "NG"
	}
	if c.TaxClass == "" {
		c.TaxClass = "standard"
	}
	if c.RecalcTimeout <= 0 {
		c.RecalcTimeout = 8 * time.Second
	}
}

// Collaborators are the external services totals depend on.
type Collaborators struct {
	Tax      TaxCalculator
	Shipping ShippingQuoter
	Coupon   CouponValidator
}

// Params bundles everything a store needs.
type Params struct {
	Config        Config
	Collaborators Collaborators
	Persister     Persister
	Notifier      Notifier
	Logger        *logger.Logger
	Metrics       *metrics.RecalcMetrics
}

// Store holds one cart: its line items, coupon, and derived totals. It is an
// explicitly constructed state container; nothing else mutates cart state.
//
// Mutations update items synchronously and schedule a totals recalculation
// without awaiting it, so the totals are only eventually consistent with the
// items while a recalculation is in flight (the Calculating flag reports
// this). Stale recalculations never win: see recalc.go.
type Store struct {
	mu sync.Mutex

	id         string
	items      []LineItem
	couponCode string
	couponCut  decimal.Decimal
	totals     Totals

	calculating bool
	seq         uint64
	applied     uint64
	inflight    sync.WaitGroup

	cfg       Config
	collab    Collaborators
	persister Persister
	notifier  Notifier
	logg      *logger.Logger
	metrics   *metrics.RecalcMetrics
}

// NewStore builds an empty cart store.
func NewStore(id string, params Params) (*Store, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("cart id required")
	}
	if params.Collaborators.Tax == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if params.Collaborators.Shipping == nil {
		return nil, fmt.Errorf("shipping quoter required")
	}
	if params.Collaborators.Coupon == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if params.Notifier == nil {
		params.Notifier = NopNotifier{}
	}
	params.Config.applyDefaults()

	return &Store{
		id:        id,
		totals:    zeroTotals(),
		couponCut: decimal.Zero,
		cfg:       params.Config,
		collab:    params.Collaborators,
		persister: params.Persister,
		notifier:  params.Notifier,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// ID returns the cart identity.
func (s *Store) ID() string {
	return s.id
}

// Snapshot is a consistent copy of the cart for rendering.
type Snapshot struct {
	ID          string
	Items       []LineItem
	CouponCode  string
	Totals      Totals
	Calculating bool
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.id,
		Items:       copyLineItems(s.items),
		CouponCode:  s.couponCode,
		Totals:      s.totals,
		Calculating: s.calculating,
	}
}

// AddItem appends a product snapshot to the cart. Adding a product that is
// already present tops up its quantity instead of creating a second line.
func (s *Store) AddItem(ctx context.Context, product *catalog.Product, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"))
	}
	if product == nil {
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeValidation, "product is required"))
	}

	s.mu.Lock()
	if existing := s.findByProductLocked(product.ID); existing != nil {
		// Top-up path: same stock and cap rules as an explicit quantity update.
		err := s.setQuantityLocked(existing, existing.Quantity+quantity)
		s.mu.Unlock()
		if err != nil {
			return s.reject(ctx, err)
		}
		s.afterMutation(ctx, types.SuccessNotice(fmt.Sprintf("%s added to cart", product.Name)))
		return nil
	}

	if product.StockStatus == enums.StockStatusOutOfStock {
		s.mu.Unlock()
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is out of stock", product.Name)))
	}
	if product.StockQuantity != nil && quantity > *product.StockQuantity {
		s.mu.Unlock()
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("only %d of %s available", *product.StockQuantity, product.Name)))
	}
	if quantity > s.cfg.MaxQuantity {
		s.mu.Unlock()
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("maximum quantity per item is %d", s.cfg.MaxQuantity)))
	}

	item, err := newLineItem(product, quantity)
	if err != nil {
		s.mu.Unlock()
		return s.reject(ctx, err)
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.afterMutation(ctx, types.SuccessNotice(fmt.Sprintf("%s added to cart", product.Name)))
	return nil
}

// RemoveItem drops the line with the given ID. Removing an absent line is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, lineID uuid.UUID) error {
	s.mu.Lock()
	s.removeLocked(lineID)
	s.mu.Unlock()

	s.afterMutation(ctx, types.SuccessNotice("Removed from cart"))
	return nil
}

// UpdateQuantity sets the line's quantity. A target below one removes the
// line; a target above the cap or the known stock is rejected unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	s.mu.Lock()
	if quantity < 1 {
		s.removeLocked(lineID)
		s.mu.Unlock()
		s.afterMutation(ctx, types.SuccessNotice("Removed from cart"))
		return nil
	}

	item := s.findByLineLocked(lineID)
	if item == nil {
		s.mu.Unlock()
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found"))
	}
	if err := s.setQuantityLocked(item, quantity); err != nil {
		s.mu.Unlock()
		return s.reject(ctx, err)
	}
	s.mu.Unlock()

	s.afterMutation(ctx, types.SuccessNotice("Cart updated"))
	return nil
}

// Clear empties the cart and zeroes every total synchronously. In-flight
// recalculations are superseded so they cannot resurrect stale totals.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.couponCode = ""
	s.couponCut = decimal.Zero
	s.totals = zeroTotals()
	s.seq++
	s.applied = s.seq
	s.calculating = false
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Delete(ctx, s.id); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithCartID(ctx, s.id), "failed to delete persisted cart; continuing in memory")
		}
	}
	s.notifier.Notify(ctx, types.SuccessNotice("Cart cleared"))
	return nil
}

// ApplyCoupon validates the code with the coupon collaborator and stores it.
// Failure of any kind leaves the cart unchanged.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return s.reject(ctx, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required"))
	}

	s.mu.Lock()
	subtotal, _, _ := aggregate(s.items)
	s.mu.Unlock()

	vctx, cancel := context.WithTimeout(ctx, s.cfg.RecalcTimeout)
	defer cancel()
	result, err := s.collab.Coupon.Validate(vctx, code, subtotal)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnsupported {
			return s.reject(ctx, typed)
		}
		return s.reject(ctx, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon code"))
	}

	s.mu.Lock()
	s.couponCode = result.Code
	s.couponCut = result.DiscountAmount
	s.mu.Unlock()

	s.afterMutation(ctx, types.SuccessNotice("Coupon applied"))
	return nil
}

// RemoveCoupon clears any applied coupon unconditionally.
func (s *Store) RemoveCoupon(ctx context.Context) error {
	s.mu.Lock()
	s.couponCode = ""
	s.couponCut = decimal.Zero
	s.mu.Unlock()

	s.afterMutation(ctx, types.SuccessNotice("Coupon removed"))
	return nil
}

// ItemQuantity returns the quantity in the cart for a product, zero if absent.
func (s *Store) ItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item := s.findByProductLocked(productID); item != nil {
		return item.Quantity
	}
	return 0
}

// Contains reports whether the product has a line in the cart.
func (s *Store) Contains(productID int64) bool {
	return s.ItemQuantity(productID) > 0
}

// Rehydrate restores persisted items and schedules a recalculation so totals
// reflect current tax and shipping answers, never the persisted ones.
func (s *Store) Rehydrate(ctx context.Context, record *Record) {
	if record == nil {
		return
	}
	s.mu.Lock()
	s.items = copyLineItems(record.Items)
	s.couponCode = record.CouponCode
	s.couponCut = decimal.Zero
	s.mu.Unlock()

	s.scheduleRecalc(ctx)
}

func (s *Store) findByProductLocked(productID int64) *LineItem {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return &s.items[i]
		}
	}
	return nil
}

func (s *Store) findByLineLocked(lineID uuid.UUID) *LineItem {
	for i := range s.items {
		if s.items[i].ID == lineID {
			return &s.items[i]
		}
	}
	return nil
}

func (s *Store) removeLocked(lineID uuid.UUID) {
	for i := range s.items {
		if s.items[i].ID == lineID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) setQuantityLocked(item *LineItem, quantity int) error {
	if quantity > s.cfg.MaxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("maximum quantity per item is %d", s.cfg.MaxQuantity))
	}
	if item.StockStatus == enums.StockStatusOutOfStock {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is out of stock", item.Name))
	}
	if item.StockQuantity != nil && quantity > *item.StockQuantity {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("only %d of %s available", *item.StockQuantity, item.Name))
	}
	item.Quantity = quantity
	return nil
}

// afterMutation emits the success toast, persists best-effort, and schedules
// the async recalculation. The toast goes out before the recalculation starts
// so a degraded-totals warning always follows it.
func (s *Store) afterMutation(ctx context.Context, notice types.Notice) {
	s.notifier.Notify(ctx, notice)
	s.persist(ctx)
	s.scheduleRecalc(ctx)
}

// reject emits the error toast for a refused mutation and returns the error.
// State is untouched by the time this is called.
func (s *Store) reject(ctx context.Context, err error) error {
	message := "Could not update cart"
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		message = typed.Message()
	}
	s.notifier.Notify(ctx, types.ErrorNotice(message))
	return err
}

func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	record := Record{
		ID:         s.id,
		Items:      copyLineItems(s.items),
		CouponCode: s.couponCode,
		UpdatedAt:  time.Now().UTC(),
	}
	s.mu.Unlock()

	if err := s.persister.Save(ctx, record); err != nil && s.logg != nil {
		lctx := s.logg.WithCartID(ctx, s.id)
		s.logg.Warn(lctx, "cart persistence failed; continuing in memory")
	}
}

func copyLineItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].StockQuantity = copyIntPtr(out[i].StockQuantity)
		if out[i].SalePrice != nil {
			sale := *out[i].SalePrice
			out[i].SalePrice = &sale
		}
		if out[i].VendorID != nil {
			vendor := *out[i].VendorID
			out[i].VendorID = &vendor
		}
	}
	return out
}
