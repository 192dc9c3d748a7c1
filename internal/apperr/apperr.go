// Package apperr classifies the errors the storefront core can surface and
// maps them onto HTTP status codes. Nothing here is fatal to the process;
// every error is scoped to the user action that produced it.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound covers both a missing order and a wrong guest token.
	// Callers must not distinguish the two, so order existence never leaks.
	ErrNotFound = errors.New("order not found")

	// ErrEmptyCart means checkout was attempted with nothing in the cart.
	// It is a redirect-to-cart signal, not a validation failure.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAlreadySettled guards against a second settlement on an order
	// whose payment has already been confirmed.
	ErrAlreadySettled = errors.New("payment already settled")

	// ErrInvalidTransition rejects a payment-flow action that does not
	// apply to the current state, e.g. confirming before a method is
	// selected or going back out of selection itself.
	ErrInvalidTransition = errors.New("invalid payment transition")

	// ErrPaymentCancelled is returned when the customer dismisses the
	// payment flow before settlement.
	ErrPaymentCancelled = errors.New("payment cancelled")

	// ErrPaymentDeclined is a recoverable gateway failure; the caller
	// returns to method selection and never auto-retries.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPersistence means the backing store was unreachable. The order is
	// kept in memory and the user sees a "saved locally" warning.
	ErrPersistence = errors.New("persistence unavailable")
)

// ValidationError identifies the first checkout field that failed and why.
// Always recoverable locally by re-prompting the user.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Kind returns a stable machine-readable label for an error.
func Kind(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""

	case errors.As(err, &ve):
		return "validation"

	case errors.Is(err, ErrNotFound):
		return "not_found"

	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"

	case errors.Is(err, ErrAlreadySettled):
		return "already_settled"

	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"

	case errors.Is(err, ErrPaymentCancelled):
		return "payment_cancelled"

	case errors.Is(err, ErrPaymentDeclined):
		return "payment_declined"

	case errors.Is(err, ErrPersistence):
		return "persistence"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

// HTTPStatus maps an error to the response code the handlers should write.
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK

	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrPaymentDeclined),
		errors.Is(err, ErrPaymentCancelled):
		return http.StatusBadRequest

	case errors.Is(err, ErrAlreadySettled),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict

	case errors.Is(err, ErrPersistence):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
