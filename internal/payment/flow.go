// Package payment drives an order through method selection, confirmation
// and settlement. Exactly one settlement may succeed per order.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// State of a payment flow.
type State string

const (
	StateSelection  State = "selection"
	StateCard       State = "card"
	StateTransfer   State = "transfer"
	StateUSSD       State = "ussd"
	StateProcessing State = "processing"

	// StateAwaitingGateway means a redirect-based gateway has accepted the
	// charge but the customer has not completed checkout there yet. The
	// order stays pending until a verify call confirms payment.
	StateAwaitingGateway State = "awaiting_gateway"

	StateSettled   State = "settled"
	StateCancelled State = "cancelled"
)

// Repository is the slice of the persistence service the flow needs to
// record a settlement.
type Repository interface {
	UpdateOrderPayment(ctx context.Context, orderRef, method, paymentStatus, status string) error
}

// Instructions are the static, method-specific details shown on a
// confirmation view. Demo values only; nothing here is charged.
type Instructions struct {
	Method        string `json:"method"`
	CardNumber    string `json:"card_number,omitempty"`
	CardExpiry    string `json:"card_expiry,omitempty"`
	CardCVV       string `json:"card_cvv,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Beneficiary   string `json:"beneficiary,omitempty"`
	USSDCode      string `json:"ussd_code,omitempty"`
	ConfirmLabel  string `json:"confirm_label,omitempty"`
}

// MethodInstructions returns the confirmation-view details for a method, or
// nil for methods without a confirmation view (pay on delivery).
func MethodInstructions(method string) *Instructions {
	switch method {
	case models.MethodCard:
		return &Instructions{
			Method:       method,
			CardNumber:   "4242 4242 4242 4242",
			CardExpiry:   "12/28",
			CardCVV:      "123",
			ConfirmLabel: "Pay now",
		}
	case models.MethodTransfer:
		return &Instructions{
			Method:        method,
			BankName:      "Café Demo Bank",
			AccountNumber: "1234 5678 90",
			Beneficiary:   "Café By Abujacar",
			ConfirmLabel:  "I have sent the money",
		}
	case models.MethodUSSD:
		return &Instructions{
			Method:       method,
			USSDCode:     "*894*000*888#",
			ConfirmLabel: "I have completed the transaction",
		}
	default:
		return nil
	}
}

// Flow is the per-order payment state machine. It owns all payment-side
// mutation of its order; transitions are serialized by an internal mutex so
// a second settlement can never race a pending one.
type Flow struct {
	mu      sync.Mutex
	state   State
	order   *models.Order
	repo    Repository
	gateway Gateway

	// Set while waiting on a redirect-based gateway.
	method     string
	gatewayRef string
	authURL    string

	// OnSettled fires at most once, after the settlement is recorded.
	OnSettled func(order *models.Order, reference string)
	notified  bool
}

func NewFlow(order *models.Order, repo Repository, gateway Gateway) *Flow {
	return &Flow{
		state:   StateSelection,
		order:   order,
		repo:    repo,
		gateway: gateway,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Order returns the flow's in-memory order. When the store is unreachable
// this copy is the authoritative record of a settlement.
func (f *Flow) Order() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// AuthorizationURL is where the customer completes a redirect-based
// payment. Empty unless the flow is awaiting the gateway.
func (f *Flow) AuthorizationURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authURL
}

func methodState(method string) (State, bool) {
	switch method {
	case models.MethodCard:
		return StateCard, true
	case models.MethodTransfer:
		return StateTransfer, true
	case models.MethodUSSD:
		return StateUSSD, true
	default:
		return "", false
	}
}

// Select moves from selection into a method view. Pay on delivery has no
// confirmation step: the order settles immediately with payment still
// pending, to be collected at the door.
func (f *Flow) Select(ctx context.Context, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSelection {
		return fmt.Errorf("%w: cannot select a method from %q", apperr.ErrInvalidTransition, f.state)
	}
	if f.order.PaymentStatus == models.PaymentPaid {
		return apperr.ErrAlreadySettled
	}

	if method == models.MethodPayOnDelivery {
		return f.settleLocked(ctx, method, models.PaymentPending, "PAY-ON-DELIVERY")
	}

	next, ok := methodState(method)
	if !ok {
		return &apperr.ValidationError{Field: "method", Message: "Unknown payment method"}
	}
	f.state = next
	return nil
}

// Back returns to method selection from a confirmation view. Not allowed
// while a charge is in flight.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateCard, StateTransfer, StateUSSD:
		f.state = StateSelection
		return nil
	case StateProcessing:
		return fmt.Errorf("%w: cannot go back while processing", apperr.ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: cannot go back from %q", apperr.ErrInvalidTransition, f.state)
	}
}

// Confirm runs the charge for the currently selected method: the
// user-initiated "I have paid" action. On gateway failure the flow returns
// to selection; a retry is always an explicit user action, never automatic.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()

	var method string
	switch f.state {
	case StateCard:
		method = models.MethodCard
	case StateTransfer:
		method = models.MethodTransfer
	case StateUSSD:
		method = models.MethodUSSD
	default:
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: cannot confirm payment from %q", apperr.ErrInvalidTransition, state)
	}
	if f.order.PaymentStatus == models.PaymentPaid {
		f.mu.Unlock()
		return apperr.ErrAlreadySettled
	}
	f.state = StateProcessing
	f.mu.Unlock()

	result, err := f.gateway.Charge(ctx, ChargeRequest{
		Reference: NewReference(),
		Email:     f.order.CustomerEmail,
		Name:      f.order.CustomerName,
		Phone:     f.order.CustomerPhone,
		Amount:    f.order.Total,
		Method:    method,
	})

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateSelection
		return fmt.Errorf("charge %s: %w", f.order.OrderRef, err)
	}
	if result.Pending {
		// The gateway accepted the charge but the customer still has to
		// complete checkout there. Nothing is paid yet.
		f.state = StateAwaitingGateway
		f.method = method
		f.gatewayRef = result.Reference
		f.authURL = result.AuthorizationURL
		return nil
	}
	return f.settleLocked(ctx, method, models.PaymentPaid, result.Reference)
}

// Verify asks a redirect-based gateway whether the customer finished
// paying. Settles on confirmation; stays awaiting while the transaction is
// still open; returns to selection when the gateway reports a decline.
func (f *Flow) Verify(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateAwaitingGateway {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("%w: cannot verify payment from %q", apperr.ErrInvalidTransition, state)
	}
	verifier, ok := f.gateway.(Verifier)
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("gateway for %s cannot verify transactions", f.order.OrderRef)
	}
	method, ref := f.method, f.gatewayRef
	f.state = StateProcessing
	f.mu.Unlock()

	paid, err := verifier.Verify(ctx, ref)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		if errors.Is(err, apperr.ErrPaymentDeclined) {
			f.state = StateSelection
		} else {
			f.state = StateAwaitingGateway
		}
		return fmt.Errorf("verify %s: %w", f.order.OrderRef, err)
	}
	if !paid {
		f.state = StateAwaitingGateway
		return nil
	}
	return f.settleLocked(ctx, method, models.PaymentPaid, ref)
}

// Cancel abandons the flow. Safe to call repeatedly; the order stays
// pending on both axes and can be retried with a fresh flow.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateProcessing:
		return fmt.Errorf("%w: cannot cancel while processing", apperr.ErrInvalidTransition)
	case StateSettled:
		return apperr.ErrAlreadySettled
	case StateCancelled:
		return nil
	default:
		f.state = StateCancelled
		return nil
	}
}

// settleLocked records the settlement exactly once. Caller holds f.mu.
func (f *Flow) settleLocked(ctx context.Context, method, paymentStatus, reference string) error {
	if f.order.PaymentStatus == models.PaymentPaid || f.state == StateSettled {
		return apperr.ErrAlreadySettled
	}

	if err := f.repo.UpdateOrderPayment(ctx, f.order.OrderRef, method, paymentStatus, models.StatusConfirmed); err != nil {
		// The store is unreachable: keep the in-memory order consistent and
		// let the caller surface a "saved locally, sync pending" warning.
		slog.Warn("Settlement not persisted, order retained locally",
			"order", f.order.OrderRef, "error", err)
		f.applySettlement(method, paymentStatus)
		return fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}

	f.applySettlement(method, paymentStatus)
	slog.Info("Payment settled",
		"order", f.order.OrderRef,
		"method", method,
		"payment_status", paymentStatus,
		"reference", reference,
	)

	if f.OnSettled != nil && !f.notified {
		f.notified = true
		f.OnSettled(f.order, reference)
	}
	return nil
}

func (f *Flow) applySettlement(method, paymentStatus string) {
	f.order.PaymentMethod = method
	f.order.PaymentStatus = paymentStatus
	f.order.Status = models.StatusConfirmed
	f.state = StateSettled
}
