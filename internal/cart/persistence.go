package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/nairamart/storefront-backend/pkg/errors"
	"github.com/nairamart/storefront-backend/pkg/redis"
)

// ErrRecordNotFound is returned when no persisted cart exists for an ID.
var ErrRecordNotFound = errors.New("cart record not found")

// Record is the durable form of a cart. Derived totals are recomputed on
// rehydrate rather than trusted from storage, since tax and shipping answers
// may have changed between sessions.
type Record struct {
	ID         string     `json:"id"`
	Items      []LineItem `json:"items"`
	CouponCode string     `json:"coupon_code,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Persister stores cart records across sessions. Failures must not break the
// cart: the store logs them and continues in memory only.
type Persister interface {
	Save(ctx context.Context, record Record) error
	Load(ctx context.Context, cartID string) (*Record, error)
	Delete(ctx context.Context, cartID string) error
}

// RedisPersister keeps cart records in Redis under the cart namespace.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersister builds the Redis-backed persister.
func NewRedisPersister(client *redis.Client, ttl time.Duration) (*RedisPersister, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if ttl <= 0 {
		return nil, errors.New("persist ttl must be positive")
	}
	return &RedisPersister{client: client, ttl: ttl}, nil
}

// Save serializes and writes the record with the configured TTL.
func (p *RedisPersister) Save(ctx context.Context, record Record) error {
	if record.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart record id is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart record")
	}
	if err := p.client.Set(ctx, p.client.CartKey(record.ID), string(payload), p.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart record")
	}
	return nil
}

// Load reads and deserializes the record, or ErrRecordNotFound. A hit slides
// the TTL so active carts outlive abandoned ones.
func (p *RedisPersister) Load(ctx context.Context, cartID string) (*Record, error) {
	key := p.client.CartKey(cartID)
	raw, err := p.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart record")
	}
	// TTL refresh is best effort; the record itself was read fine.
	_ = p.client.Touch(ctx, key, p.ttl)
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart record")
	}
	if record.ID == "" {
		record.ID = cartID
	}
	return &record, nil
}

// Delete removes the record.
func (p *RedisPersister) Delete(ctx context.Context, cartID string) error {
	if err := p.client.Del(ctx, p.client.CartKey(cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart record")
	}
	return nil
}
