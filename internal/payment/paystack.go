package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackGateway drives transactions through the Paystack API: Charge
// initializes one and hands back the hosted checkout URL; Verify asks
// whether the customer completed it. An order is only marked paid after a
// successful verify.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackGateway(secretKey string) *PaystackGateway {
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   paystackBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type paystackInitRequest struct {
	Email     string   `json:"email"`
	Amount    int64    `json:"amount"` // kobo
	Reference string   `json:"reference"`
	Channels  []string `json:"channels,omitempty"`
	Metadata  struct {
		CustomFields []paystackCustomField `json:"custom_fields"`
	} `json:"metadata"`
}

type paystackCustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func channelsFor(method string) []string {
	switch method {
	case "card":
		return []string{"card"}
	case "ussd":
		return []string{"ussd"}
	case "transfer":
		return []string{"bank_transfer"}
	default:
		return nil
	}
}

func (g *PaystackGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body := paystackInitRequest{
		Email:     req.Email,
		Amount:    int64(req.Amount * 100), // Paystack expects amount in kobo
		Reference: req.Reference,
		Channels:  channelsFor(req.Method),
	}
	body.Metadata.CustomFields = []paystackCustomField{
		{DisplayName: "Customer Name", VariableName: "customer_name", Value: req.Name},
		{DisplayName: "Phone", VariableName: "phone", Value: req.Phone},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("paystack: building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack: %w", err)
	}
	defer resp.Body.Close()

	var initResp paystackInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, fmt.Errorf("paystack: decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !initResp.Status {
		return nil, fmt.Errorf("paystack: %s: %w", initResp.Message, apperr.ErrPaymentDeclined)
	}

	// Initialize only opens the hosted checkout; nothing is paid yet.
	return &ChargeResult{
		Reference:        initResp.Data.Reference,
		AuthorizationURL: initResp.Data.AuthorizationURL,
		Pending:          true,
	}, nil
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"` // "success", "abandoned", "failed"
		Reference string `json:"reference"`
	} `json:"data"`
}

// Verify reports whether the referenced transaction was completed. An
// abandoned transaction is simply not paid yet; a failed one is a decline.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, fmt.Errorf("paystack: building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("paystack: %w", err)
	}
	defer resp.Body.Close()

	var verifyResp paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return false, fmt.Errorf("paystack: decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !verifyResp.Status {
		return false, fmt.Errorf("paystack: %s: %w", verifyResp.Message, apperr.ErrPaymentDeclined)
	}

	switch verifyResp.Data.Status {
	case "success":
		return true, nil
	case "failed", "reversed":
		return false, fmt.Errorf("paystack: transaction %s: %w", verifyResp.Data.Status, apperr.ErrPaymentDeclined)
	default:
		// "abandoned", "ongoing", "pending": the customer has not finished.
		return false, nil
	}
}
