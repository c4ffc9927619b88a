package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/nairamart/storefront-backend/pkg/enums"
	"github.com/nairamart/storefront-backend/pkg/types"
)

// recalcJob is one recalculation's input, captured under lock when the job is
// admitted. seq decides at write-back time whether the job is still current.
type recalcJob struct {
	seq        uint64
	items      []LineItem
	couponCode string
	couponCut  decimal.Decimal
}

// scheduleRecalc starts a totals recalculation in the background and returns
// immediately. The goroutine runs detached from the request context so a
// closed connection cannot abandon the totals mid-flight.
func (s *Store) scheduleRecalc(ctx context.Context) {
	job := s.beginRecalc()
	detached := context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		rctx, cancel := context.WithTimeout(detached, s.cfg.RecalcTimeout)
		defer cancel()
		s.runRecalc(rctx, job)
	}()
}

// Recalculate runs the totals pipeline synchronously against the current
// items. The result is still subject to the stale-write guard.
func (s *Store) Recalculate(ctx context.Context) Totals {
	job := s.beginRecalc()
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RecalcTimeout)
	defer cancel()
	return s.runRecalc(rctx, job)
}

// Flush blocks until every scheduled recalculation has finished.
func (s *Store) Flush() {
	s.inflight.Wait()
}

// beginRecalc snapshots the inputs and claims the next sequence number. Any
// older in-flight job is superseded from this point on.
func (s *Store) beginRecalc() recalcJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.calculating = true
	return recalcJob{
		seq:        s.seq,
		items:      copyLineItems(s.items),
		couponCode: s.couponCode,
		couponCut:  s.couponCut,
	}
}

// runRecalc computes totals for the job and writes them back unless a newer
// job started in the meantime. The job that started last always wins,
// regardless of which finishes first.
func (s *Store) runRecalc(ctx context.Context, job recalcJob) Totals {
	started := time.Now()
	totals, degraded := s.compute(ctx, job)

	s.mu.Lock()
	if job.seq != s.seq {
		s.mu.Unlock()
		s.metrics.IncStaleDiscard()
		s.metrics.ObserveDuration("discarded", time.Since(started))
		if s.logg != nil {
			s.logg.Debug(s.logg.WithCartID(ctx, s.id), "discarded stale totals recalculation")
		}
		return totals
	}
	s.totals = totals
	s.applied = job.seq
	s.calculating = false
	s.mu.Unlock()

	outcome := "applied"
	if totals.TaxUnavailable || totals.ShippingUnavailable {
		outcome = "degraded"
	}
	s.metrics.ObserveDuration(outcome, time.Since(started))

	if degraded != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCartID(ctx, s.id), "cart totals degraded", degraded)
		}
		s.notifier.Notify(ctx, types.WarningNotice(
			"Some totals could not be calculated and are shown as zero"))
	}
	return totals
}

// compute runs the pricing pipeline over the snapshot. Tax and shipping
// failures do not fail the cart: the failing component contributes zero, the
// totals carry a warning flag, and the combined error is returned for
// logging.
func (s *Store) compute(ctx context.Context, job recalcJob) (Totals, error) {
	subtotal, productDiscount, itemCount := aggregate(job.items)
	discount := productDiscount.Add(job.couponCut)

	// The full discount, product deltas included, comes off the base that
	// tax and shipping are evaluated against.
	discounted := subtotal.Sub(discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	totals := Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       decimal.Zero,
		Shipping:  decimal.Zero,
		ItemCount: itemCount,
	}

	// An empty cart has nothing to price, coupon or not.
	if itemCount == 0 {
		return zeroTotals(), nil
	}

	var degraded error

	tax, err := s.collab.Tax.Calculate(ctx, discounted, s.cfg.TaxClass, s.cfg.Country, s.cfg.State)
	if err != nil {
		totals.TaxUnavailable = true
		totals.Warnings = append(totals.Warnings, types.CartWarning{
			Type:    enums.CartWarningTypeTaxUnavailable,
			Message: "Tax could not be calculated and is shown as zero",
		})
		s.metrics.IncFailOpen("tax")
		degraded = multierr.Append(degraded, err)
	} else {
		totals.Tax = tax
	}

	// A fully discounted cart owes nothing to ship; the quoter is only
	// consulted when there is a positive base to rate against.
	if discounted.IsPositive() {
		rates, err := s.collab.Shipping.Quote(ctx, s.cfg.Country, discounted, itemCount)
		switch {
		case err != nil:
			totals.ShippingUnavailable = true
			totals.Warnings = append(totals.Warnings, types.CartWarning{
				Type:    enums.CartWarningTypeShippingUnavailable,
				Message: "Shipping could not be calculated and is shown as zero",
			})
			s.metrics.IncFailOpen("shipping")
			degraded = multierr.Append(degraded, err)
		case len(rates) > 0:
			totals.Shipping = rates[0].Applies(discounted)
		}
	}

	totals.Total = discounted.Add(totals.Tax).Add(totals.Shipping)
	return totals, degraded
}
