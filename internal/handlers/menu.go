package handlers

import (
	"net/http"
	"strconv"

	"github.com/CyberG247/cafebyabujacar/internal/store"
)

type MenuHandler struct {
	Store *store.Store
}

// List serves the public menu, optionally filtered: /api/menu?category=coffee
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.GetPublicProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Message: "Invalid product ID.",
		}})
		return
	}

	product, err := h.Store.GetProductByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "not_found",
			Message: "Product not found.",
		}})
		return
	}
	writeJSON(w, http.StatusOK, product)
}
