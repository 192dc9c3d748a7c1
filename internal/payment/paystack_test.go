package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
)

func TestPaystackChargeInitializes(t *testing.T) {
	var got paystackInitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := paystackInitResponse{Status: true, Message: "Authorization URL created"}
		resp.Data.AuthorizationURL = "https://checkout.paystack.com/abc"
		resp.Data.Reference = got.Reference
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := NewPaystackGateway("sk_test_key")
	g.baseURL = srv.URL

	result, err := g.Charge(context.Background(), ChargeRequest{
		Reference: "CAF-ref-1",
		Email:     "amaka@example.com",
		Name:      "Amaka Obi",
		Phone:     "+2348012345678",
		Amount:    7300,
		Method:    "card",
	})
	require.NoError(t, err)

	assert.Equal(t, "CAF-ref-1", result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)
	assert.Equal(t, int64(730000), got.Amount, "naira converted to kobo")
	assert.Equal(t, []string{"card"}, got.Channels)
	require.Len(t, got.Metadata.CustomFields, 2)
	assert.Equal(t, "Amaka Obi", got.Metadata.CustomFields[0].Value)
}

func TestPaystackChargeIsPendingUntilVerified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := paystackInitResponse{Status: true}
		resp.Data.AuthorizationURL = "https://checkout.paystack.com/abc"
		resp.Data.Reference = "CAF-ref-2"
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := NewPaystackGateway("sk_test_key")
	g.baseURL = srv.URL

	result, err := g.Charge(context.Background(), ChargeRequest{Reference: "CAF-ref-2", Email: "a@b.co", Amount: 100})
	require.NoError(t, err)
	assert.True(t, result.Pending, "initialize only opens checkout, it does not settle")
}

func TestPaystackVerify(t *testing.T) {
	status := "abandoned"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/CAF-ref-3", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		resp := paystackVerifyResponse{Status: true}
		resp.Data.Status = status
		resp.Data.Reference = "CAF-ref-3"
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := NewPaystackGateway("sk_test_key")
	g.baseURL = srv.URL

	paid, err := g.Verify(context.Background(), "CAF-ref-3")
	require.NoError(t, err)
	assert.False(t, paid, "abandoned checkout is not paid")

	status = "success"
	paid, err = g.Verify(context.Background(), "CAF-ref-3")
	require.NoError(t, err)
	assert.True(t, paid)

	status = "failed"
	_, err = g.Verify(context.Background(), "CAF-ref-3")
	assert.ErrorIs(t, err, apperr.ErrPaymentDeclined)
}

func TestPaystackChargeDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(paystackInitResponse{Status: false, Message: "Invalid amount"})
	}))
	defer srv.Close()

	g := NewPaystackGateway("sk_test_key")
	g.baseURL = srv.URL

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 0, Email: "a@b.co"})
	assert.ErrorIs(t, err, apperr.ErrPaymentDeclined)
}
