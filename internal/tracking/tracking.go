// Package tracking resolves who may see an order and where it sits in the
// fulfillment pipeline.
package tracking

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// Repository is the lookup slice of the persistence service.
type Repository interface {
	GetOrderByRef(ctx context.Context, orderRef string) (*models.Order, error)
}

// StatusSource resolves an order's current fulfillment status. Two
// implementations exist: one derives it from elapsed time, one trusts the
// store. The tracker is identical regardless of which is plugged in.
type StatusSource interface {
	Status(order *models.Order, now time.Time) string
}

// TimeSource derives status purely from time since creation. The mapping is
// monotonic: re-evaluating later can only advance or hold the status.
type TimeSource struct{}

// Elapsed-time thresholds of the simulated kitchen.
const (
	confirmAfter  = 2 * time.Minute
	prepareAfter  = 10 * time.Minute
	dispatchAfter = 25 * time.Minute
	deliverAfter  = 45 * time.Minute
)

func (TimeSource) Status(order *models.Order, now time.Time) string {
	elapsed := now.Sub(order.CreatedAt)

	var derived string
	switch {
	case elapsed < confirmAfter:
		derived = models.StatusPending
	case elapsed < prepareAfter:
		derived = models.StatusConfirmed
	case elapsed < dispatchAfter:
		derived = models.StatusPreparing
	case elapsed < deliverAfter:
		derived = models.StatusOutForDelivery
	default:
		derived = models.StatusDelivered
	}

	// An explicit confirmation (payment) may already have advanced the
	// stored status; never report anything earlier than that.
	if models.StatusRank(order.Status) > models.StatusRank(derived) {
		return order.Status
	}
	return derived
}

// StoreSource trusts whatever status the store currently holds. This is
// live mode, where staff updates are authoritative.
type StoreSource struct{}

func (StoreSource) Status(order *models.Order, _ time.Time) string {
	return order.Status
}

// Tracker looks up orders for customers. Guest orders additionally require
// the token issued at creation.
type Tracker struct {
	repo   Repository
	source StatusSource
	now    func() time.Time
}

func NewTracker(repo Repository, source StatusSource) *Tracker {
	return &Tracker{repo: repo, source: source, now: time.Now}
}

// Lookup fetches an order and resolves its current status. A wrong token
// and a nonexistent order return the same ErrNotFound so a caller can never
// learn whether an order exists.
func (t *Tracker) Lookup(ctx context.Context, orderRef, token string) (*models.Order, error) {
	order, err := t.repo.GetOrderByRef(ctx, orderRef)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	if order.GuestToken != "" {
		if subtle.ConstantTimeCompare([]byte(order.GuestToken), []byte(token)) != 1 {
			return nil, apperr.ErrNotFound
		}
	}

	order.Status = t.source.Status(order, t.now())
	return order, nil
}
