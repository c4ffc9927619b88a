// Package cartmanager maps cart identities to live cart stores. A cart that
// is not in memory is rehydrated from persistence on first access, so a
// returning device sees the basket it left behind.
package cartmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nairamart/storefront-backend/internal/cart"
	"github.com/nairamart/storefront-backend/pkg/logger"
	"github.com/nairamart/storefront-backend/pkg/metrics"
)

// Manager owns the cart-id to store mapping.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*cart.Store

	cfg       cart.Config
	collab    cart.Collaborators
	persister cart.Persister
	notifier  cart.Notifier
	logg      *logger.Logger
	metrics   *metrics.RecalcMetrics
}

// Params configures a manager; every store it creates shares these.
type Params struct {
	Config        cart.Config
	Collaborators cart.Collaborators
	Persister     cart.Persister
	Notifier      cart.Notifier
	Logger        *logger.Logger
	Metrics       *metrics.RecalcMetrics
}

// New builds a manager.
func New(params Params) (*Manager, error) {
	if params.Collaborators.Tax == nil {
		return nil, fmt.Errorf("tax calculator required")
	}
	if params.Collaborators.Shipping == nil {
		return nil, fmt.Errorf("shipping quoter required")
	}
	if params.Collaborators.Coupon == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	return &Manager{
		stores:    make(map[string]*cart.Store),
		cfg:       params.Config,
		collab:    params.Collaborators,
		persister: params.Persister,
		notifier:  params.Notifier,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// Get returns the live store for the cart, creating and rehydrating it when
// the cart is not yet in memory. Concurrent calls for the same id receive the
// same store.
func (m *Manager) Get(ctx context.Context, cartID string) (*cart.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[cartID]; ok {
		return store, nil
	}

	store, err := cart.NewStore(cartID, cart.Params{
		Config:        m.cfg,
		Collaborators: m.collab,
		Persister:     m.persister,
		Notifier:      m.notifier,
		Logger:        m.logg,
		Metrics:       m.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create cart store: %w", err)
	}

	if m.persister != nil {
		record, err := m.persister.Load(ctx, cartID)
		switch {
		case err == nil:
			// Persisted totals are never trusted; rehydration recomputes them
			// against current tax and shipping answers.
			store.Rehydrate(ctx, record)
		case errors.Is(err, cart.ErrRecordNotFound):
			// New cart.
		default:
			if m.logg != nil {
				lctx := m.logg.WithCartID(ctx, cartID)
				m.logg.Warn(lctx, "failed to load persisted cart; starting empty")
			}
		}
	}

	m.stores[cartID] = store
	return store, nil
}

// Peek returns the store only if it is already in memory.
func (m *Manager) Peek(cartID string) (*cart.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.stores[cartID]
	return store, ok
}

// Evict drops the store from memory after draining its recalculations. The
// persisted record is untouched; a later Get rehydrates it.
func (m *Manager) Evict(cartID string) {
	m.mu.Lock()
	store, ok := m.stores[cartID]
	delete(m.stores, cartID)
	m.mu.Unlock()

	if ok {
		store.Flush()
	}
}

// Len reports the number of carts held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Drain waits for every in-memory cart's recalculations to finish. Shutdown
// calls this before closing shared clients.
func (m *Manager) Drain() {
	m.mu.Lock()
	stores := make([]*cart.Store, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	m.mu.Unlock()

	for _, store := range stores {
		store.Flush()
	}
}
