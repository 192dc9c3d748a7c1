package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
)

// ChargeRequest describes one payment attempt handed to a gateway.
// Amounts are in naira; gateways convert to their own minor unit.
type ChargeRequest struct {
	Reference string
	Email     string
	Name      string
	Phone     string
	Amount    float64
	Method    string
}

// ChargeResult is the gateway's answer to a charge. Pending means the
// customer still has to complete checkout at AuthorizationURL and the
// caller must verify before treating the charge as paid.
type ChargeResult struct {
	Reference        string
	AuthorizationURL string // set by redirect-based gateways, empty otherwise
	Pending          bool
}

// Gateway is the external payment processor. The core treats it as opaque:
// a charge either settles with a result or fails with an error, and
// cancellation arrives through the context.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Verifier is implemented by gateways whose settlement completes out of
// band. Verify reports whether the referenced transaction has been paid;
// a decline comes back as an ErrPaymentDeclined-wrapped error.
type Verifier interface {
	Verify(ctx context.Context, reference string) (bool, error)
}

// NewReference returns a unique gateway reference for a charge.
func NewReference() string {
	return "CAF-" + uuid.NewString()
}

// SimulatedGateway settles every charge after a bounded delay, standing in
// for the asynchronous confirmation callback of a live processor. No real
// money moves.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("simulated gateway: invalid amount %.2f: %w", req.Amount, apperr.ErrPaymentDeclined)
	}
	if err := waitOrCancel(ctx, g.Delay); err != nil {
		return nil, err
	}
	ref := req.Reference
	if ref == "" {
		ref = "SIM-" + uuid.NewString()
	}
	return &ChargeResult{Reference: ref}, nil
}

// waitOrCancel blocks for d or until ctx is done. Returns nil when the
// delay elapses, ctx.Err() otherwise.
func waitOrCancel(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
