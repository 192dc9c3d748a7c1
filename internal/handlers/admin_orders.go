package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = 10 // Default limit
	}

	offset := (page - 1) * limit

	orders, err := h.Store.GetAllOrders(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	totalOrders, err := h.Store.GetTotalOrdersCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 { // Handle case with no orders
		totalPages = 1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":       orders,
		"current_page": page,
		"total_pages":  totalPages,
		"total_orders": totalOrders,
	})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	models.StatusPending:        true,
	models.StatusConfirmed:      true,
	models.StatusPreparing:      true,
	models.StatusOutForDelivery: true,
	models.StatusDelivered:      true,
}

// UpdateOrderStatus advances an order along the fulfillment pipeline. In
// live mode this is what the customer's tracking view reflects; staff may
// not move an order backwards.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderRef := r.PathValue("ref")

	var req statusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Kind:    "bad_request",
			Field:   "status",
			Message: "Unknown fulfillment status.",
		}})
		return
	}

	current, err := h.Store.GetOrderByRef(r.Context(), orderRef)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "not_found",
			Message: "Order not found.",
		}})
		return
	}
	if models.StatusRank(req.Status) < models.StatusRank(current.Status) {
		writeJSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Kind:    "invalid_transition",
			Field:   "status",
			Message: "An order cannot move backwards in the pipeline.",
		}})
		return
	}

	if err := h.Store.UpdateOrderStatus(r.Context(), orderRef, req.Status); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("Order status updated", "order", orderRef, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]string{
		"order_id": orderRef,
		"status":   req.Status,
	})
}
