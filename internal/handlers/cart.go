package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/CyberG247/cafebyabujacar/internal/models"
	"github.com/CyberG247/cafebyabujacar/internal/store"
)

const publicSession = "cafe-session"

// CartHandler keeps the shopping cart in the browser session: a simple
// product-id → quantity map. Checkout consumes a snapshot of it.
type CartHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

type cartLineView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

func getCart(session *sessions.Session) map[int]int {
	if cart, ok := session.Values["cart"].(map[int]int); ok {
		return cart
	}
	return map[int]int{}
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	cart := getCart(session)

	var lines []cartLineView
	var subtotal float64
	for productID, qty := range cart {
		product, err := h.Store.GetProductByID(r.Context(), productID)
		if err != nil {
			// Product disappeared from the catalog; drop the line.
			delete(cart, productID)
			continue
		}
		line := cartLineView{Product: *product, Quantity: qty, Subtotal: float64(qty) * product.Price}
		lines = append(lines, line)
		subtotal += line.Subtotal
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":    lines,
		"subtotal": subtotal,
	})
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSession)
	h.view(w, r, session)
}

type cartUpdateRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Update sets the quantity for a product; zero or negative removes it.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSession)

	var req cartUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cart := getCart(session)
	if req.Quantity <= 0 {
		delete(cart, req.ProductID)
	} else {
		if _, err := h.Store.GetProductByID(r.Context(), req.ProductID); err != nil {
			writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
				Kind:    "not_found",
				Message: "Product not found.",
			}})
			return
		}
		cart[req.ProductID] = req.Quantity
	}

	session.Values["cart"] = cart
	if err := session.Save(r, w); err != nil {
		writeError(w, err)
		return
	}
	h.view(w, r, session)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSession)
	delete(session.Values, "cart")
	if err := session.Save(r, w); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": []cartLineView{}, "subtotal": 0})
}
