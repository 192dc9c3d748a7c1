package handlers

import (
	"log/slog"
	"net/http"

	"github.com/CyberG247/cafebyabujacar/internal/receipt"
)

// Receipt serves the customer copy of an order. PDF by default when
// requested; falls back to the plain-text print layout if PDF rendering
// fails.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	order, err := h.loadOwned(r, r.PathValue("ref"))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		data, err := receipt.RenderPDF(order)
		if err == nil {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+order.OrderRef+`.pdf"`)
			w.Write(data)
			return
		}
		slog.Warn("PDF export unavailable, falling back to plain text", "order", order.OrderRef, "error", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(receipt.Render(order)))
}
