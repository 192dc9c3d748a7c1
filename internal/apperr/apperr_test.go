package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Field: "name", Message: "too short"}, "validation"},
		{"not found", ErrNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrNotFound), "not_found"},
		{"empty cart", ErrEmptyCart, "empty_cart"},
		{"already settled", ErrAlreadySettled, "already_settled"},
		{"invalid transition", fmt.Errorf("%w: cannot confirm from selection", ErrInvalidTransition), "invalid_transition"},
		{"cancelled", ErrPaymentCancelled, "payment_cancelled"},
		{"declined", ErrPaymentDeclined, "payment_declined"},
		{"persistence", ErrPersistence, "persistence"},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"unknown", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(&ValidationError{Field: "phone", Message: "invalid"}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("track: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrEmptyCart))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrAlreadySettled))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("%w: no", ErrInvalidTransition)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrPersistence))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "address", Message: "must be at least 10 characters"}
	assert.Equal(t, "address: must be at least 10 characters", err.Error())
}
