// Package notify carries user-facing notices from cart operations back to
// the HTTP response. Cart stores are long-lived and shared, so the notifier
// cannot be bound per request; instead a collector rides the request context
// and a context-aware notifier delivers into whichever collector is present.
package notify

import (
	"context"
	"sync"

	"github.com/nairamart/storefront-backend/pkg/types"
)

type collectorKey struct{}

// Collector accumulates the notices produced during one request.
type Collector struct {
	mu      sync.Mutex
	notices []types.Notice
}

// Add appends a notice.
func (c *Collector) Add(notice types.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, notice)
}

// Notices returns everything collected so far.
func (c *Collector) Notices() []types.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// NewContext attaches a collector to the context. Values survive
// context.WithoutCancel, so notices from detached recalculations still land
// in the collector while the request is being served.
func NewContext(ctx context.Context) (context.Context, *Collector) {
	collector := &Collector{}
	return context.WithValue(ctx, collectorKey{}, collector), collector
}

// FromContext returns the collector on the context, if any.
func FromContext(ctx context.Context) (*Collector, bool) {
	collector, ok := ctx.Value(collectorKey{}).(*Collector)
	return collector, ok
}

// ContextNotifier delivers notices into the context's collector and drops
// them when none is attached.
type ContextNotifier struct{}

// Notify implements the cart notifier surface.
func (ContextNotifier) Notify(ctx context.Context, notice types.Notice) {
	if collector, ok := FromContext(ctx); ok {
		collector.Add(notice)
	}
}
