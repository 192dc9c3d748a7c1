package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
	"github.com/CyberG247/cafebyabujacar/internal/checkout"
	"github.com/CyberG247/cafebyabujacar/internal/models"
	"github.com/CyberG247/cafebyabujacar/internal/payment"
	"github.com/CyberG247/cafebyabujacar/internal/store"
	"github.com/CyberG247/cafebyabujacar/internal/tracking"
)

type OrderHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Tracker      *tracking.Tracker
	Gateway      payment.Gateway

	// Payment flows in progress, one per order. A flow survives across
	// requests until it settles or is cancelled.
	mu    sync.Mutex
	flows map[string]*payment.Flow

	// Orders retained in memory when the store was unreachable at checkout
	// ("saved locally, sync pending").
	localMu sync.RWMutex
	local   map[string]*models.Order
}

func NewOrderHandler(s *store.Store, sessionStore *sessions.CookieStore, tracker *tracking.Tracker, gateway payment.Gateway) *OrderHandler {
	return &OrderHandler{
		Store:        s,
		SessionStore: sessionStore,
		Tracker:      tracker,
		Gateway:      gateway,
		flows:        make(map[string]*payment.Flow),
		local:        make(map[string]*models.Order),
	}
}

type checkoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type orderResponse struct {
	Order      *models.Order `json:"order"`
	GuestToken string        `json:"guest_token,omitempty"`
	TrackURL   string        `json:"track_url,omitempty"`
	Warning    string        `json:"warning,omitempty"`
}

// Checkout turns the session cart plus contact details into a pending
// order. Prices are snapshotted from the catalog at this moment; nothing is
// persisted if validation fails.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSession)

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cartMap := getCart(session)
	var lines []checkout.CartLine
	for productID, qty := range cartMap {
		product, err := h.Store.GetProductByID(r.Context(), productID)
		if err != nil {
			// Never place an order missing something the customer saw in
			// their cart.
			slog.Warn("Cart line no longer resolvable", "product_id", productID, "error", err)
			writeError(w, &apperr.ValidationError{
				Field:   "cart",
				Message: "An item in your cart is no longer available. Please review your cart and try again.",
			})
			return
		}
		lines = append(lines, checkout.CartLine{
			ProductName: product.Name,
			Quantity:    qty,
			UnitPrice:   product.Price,
		})
	}

	order, err := checkout.Build(lines, checkout.ContactInfo{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyCart) {
			// Not a validation failure: the caller should send the user back
			// to cart building.
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":    errorDetail{Kind: "empty_cart", Message: userMessage("empty_cart")},
				"redirect": "/cart",
			})
			return
		}
		writeError(w, err)
		return
	}

	resp := orderResponse{
		Order:      order,
		GuestToken: order.GuestToken,
		TrackURL:   "/api/orders/" + order.OrderRef + "?token=" + order.GuestToken,
	}

	if err := h.Store.CreateOrder(r.Context(), order); err != nil {
		// Degrade rather than lose a completed purchase: keep the order in
		// memory and tell the customer it is saved locally.
		slog.Warn("Order not persisted, retained in memory", "order", order.OrderRef, "error", err)
		h.localMu.Lock()
		h.local[order.OrderRef] = order
		h.localMu.Unlock()
		resp.Warning = "saved locally, sync pending"
	}

	// Remember the guest token for this browsing session and empty the cart.
	session.Values["order_"+order.OrderRef+"_token"] = order.GuestToken
	delete(session.Values, "cart")
	session.Save(r, w)

	slog.Info("Order placed", "order", order.OrderRef, "total", order.Total, "items", len(order.Items))
	writeJSON(w, http.StatusCreated, resp)
}

// resolveToken finds the guest token for an order: explicit query parameter
// first, then the creating session.
func (h *OrderHandler) resolveToken(r *http.Request, orderRef string) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	session, _ := h.SessionStore.Get(r, publicSession)
	if token, ok := session.Values["order_"+orderRef+"_token"].(string); ok {
		return token
	}
	return ""
}

// loadOwned fetches an order the caller may see, falling back to the
// locally-retained copies when the store lost it.
func (h *OrderHandler) loadOwned(r *http.Request, orderRef string) (*models.Order, error) {
	token := h.resolveToken(r, orderRef)

	order, err := h.Tracker.Lookup(r.Context(), orderRef, token)
	if err == nil {
		return order, nil
	}

	h.localMu.RLock()
	localOrder, ok := h.local[orderRef]
	h.localMu.RUnlock()
	if ok && localOrder.GuestToken == token {
		return localOrder, nil
	}
	return nil, apperr.ErrNotFound
}

// Track serves the current state of an order for its owner.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	order, err := h.loadOwned(r, r.PathValue("ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order})
}

// Events streams order changes to an open tracking view over SSE. The
// subscription lives exactly as long as the request.
func (h *OrderHandler) Events(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")
	if _, err := h.loadOwned(r, orderRef); err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok || h.Store.Notifier == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: errorDetail{
			Kind:    "unsupported",
			Message: "Live updates are not available.",
		}})
		return
	}

	events, cancel := h.Store.Notifier.Subscribe(orderRef)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			writeSSE(w, event)
			flusher.Flush()
		}
	}
}
