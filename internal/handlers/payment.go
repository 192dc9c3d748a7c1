package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
	"github.com/CyberG247/cafebyabujacar/internal/models"
	"github.com/CyberG247/cafebyabujacar/internal/payment"
	"github.com/CyberG247/cafebyabujacar/internal/store"
)

// flowFor returns the in-progress payment flow for an order, creating one
// in the selection state if none exists.
func (h *OrderHandler) flowFor(r *http.Request, orderRef string) (*payment.Flow, error) {
	order, err := h.loadOwned(r, orderRef)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if flow, ok := h.flows[orderRef]; ok {
		return flow, nil
	}
	flow := payment.NewFlow(order, h.Store, h.Gateway)
	h.flows[orderRef] = flow
	return flow, nil
}

func (h *OrderHandler) dropFlow(orderRef string) {
	h.mu.Lock()
	delete(h.flows, orderRef)
	h.mu.Unlock()
}

type paymentStateResponse struct {
	State            payment.State         `json:"state"`
	Amount           float64               `json:"amount"`
	Instructions     *payment.Instructions `json:"instructions,omitempty"`
	AuthorizationURL string                `json:"authorization_url,omitempty"`
	Warning          string                `json:"warning,omitempty"`
}

func flowState(flow *payment.Flow, amount float64, warning string) paymentStateResponse {
	state := flow.State()
	resp := paymentStateResponse{State: state, Amount: amount, Warning: warning}
	switch state {
	case payment.StateCard, payment.StateTransfer, payment.StateUSSD:
		resp.Instructions = payment.MethodInstructions(string(state))
	case payment.StateAwaitingGateway:
		resp.AuthorizationURL = flow.AuthorizationURL()
	}
	return resp
}

// respondFlow writes the post-transition view of a flow. When the store was
// unreachable the settlement lives only in the flow's in-memory order, so
// that copy is kept for later tracking and returned directly instead of
// re-reading the store.
func (h *OrderHandler) respondFlow(w http.ResponseWriter, r *http.Request, orderRef string, flow *payment.Flow, err error) {
	warning := ""
	if err != nil {
		if !errors.Is(err, apperr.ErrPersistence) {
			writeError(w, err)
			return
		}
		warning = userMessage("persistence")
	}

	var order *models.Order
	if warning != "" {
		order = flow.Order()
		h.localMu.Lock()
		h.local[orderRef] = order
		h.localMu.Unlock()
	} else {
		order, err = h.loadOwned(r, orderRef)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	if flow.State() == payment.StateSettled {
		h.dropFlow(orderRef)
		writeJSON(w, http.StatusOK, orderResponse{Order: order, Warning: warning})
		return
	}
	writeJSON(w, http.StatusOK, flowState(flow, order.Total, warning))
}

// PaymentState reports where an order's payment flow currently stands.
func (h *OrderHandler) PaymentState(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	order, err := h.loadOwned(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flowState(flow, order.Total, ""))
}

type selectMethodRequest struct {
	Method string `json:"method"`
}

// SelectMethod picks a payment method. Pay on delivery settles the order in
// this same call; the other methods move to a confirmation view.
func (h *OrderHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")

	var req selectMethodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondFlow(w, r, orderRef, flow, flow.Select(r.Context(), req.Method))
}

// BackToSelection returns from a confirmation view to method selection.
func (h *OrderHandler) BackToSelection(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := flow.Back(); err != nil {
		writeError(w, err)
		return
	}
	order, err := h.loadOwned(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flowState(flow, order.Total, ""))
}

// ConfirmPayment is the "I have paid" action: it drives the charge through
// the gateway. Simulated charges settle here; a redirect-based gateway
// instead answers with its checkout URL and settlement waits for verify.
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondFlow(w, r, orderRef, flow, flow.Confirm(r.Context()))
}

// VerifyPayment checks back with a redirect-based gateway after the
// customer returns from its hosted checkout. Settles the order once the
// gateway confirms the transaction completed.
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respondFlow(w, r, orderRef, flow, flow.Verify(r.Context()))
}

// CancelPayment abandons the flow; the order stays pending and retryable.
func (h *OrderHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	flow, err := h.flowFor(r, orderRef)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := flow.Cancel(); err != nil {
		writeError(w, err)
		return
	}
	h.dropFlow(orderRef)
	writeJSON(w, http.StatusOK, map[string]string{
		"state":   string(payment.StateCancelled),
		"message": userMessage("payment_cancelled"),
	})
}

func writeSSE(w http.ResponseWriter, event store.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
