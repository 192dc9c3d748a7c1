package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// RenderPDF exports the customer copy as a PDF document. Core PDF fonts are
// Latin-1, so amounts are written as "NGN" here instead of the naira sign.
func RenderPDF(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	naira := func(amount float64) string {
		return "NGN " + groupThousands(int64(amount + 0.5))
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "CAFE BY ABUJACAR", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Where Luxury Meets Flavor", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Abuja, Nigeria", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	kv := func(key, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(40, 6, key, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, value, "", 1, "R", false, 0, "")
	}

	kv("Order #", order.OrderRef)
	kv("Date", order.Date)
	kv("Customer", order.CustomerName)
	kv("Phone", order.CustomerPhone)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "ITEMS", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(0, 6, item.ProductName, "", 1, "L", false, 0, "")
		qty := fmt.Sprintf("%d x %s", item.Quantity, naira(item.UnitPrice))
		pdf.CellFormat(60, 5, "  "+qty, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, naira(item.Subtotal()), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	kv("Subtotal", naira(order.Subtotal))
	kv("Delivery Fee", naira(order.DeliveryFee))
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(40, 8, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, naira(order.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(2)

	kv("Payment Method", MethodLabel(order.PaymentMethod))
	kv("Status", PaymentStatusLabel(order))
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "DELIVERY ADDRESS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, order.DeliveryAddress, "", "L", false)
	if order.Notes != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "NOTES", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, order.Notes, "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for your order!", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "*** CUSTOMER COPY ***", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
