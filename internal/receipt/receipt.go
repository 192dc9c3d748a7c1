// Package receipt projects a settled order into printable customer copies.
// Rendering is read-only; an order is never mutated here.
package receipt

import (
	"fmt"
	"strings"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

const (
	lineWidth = 40
	divider   = "----------------------------------------"
)

// PaymentStatusLabel is the receipt wording for the payment axis.
func PaymentStatusLabel(order *models.Order) string {
	if order.PaymentStatus == models.PaymentPaid {
		return "PAID SUCCESSFUL"
	}
	return "PENDING PAYMENT"
}

// MethodLabel is the receipt wording for a payment method.
func MethodLabel(method string) string {
	switch method {
	case models.MethodCard:
		return "Card"
	case models.MethodTransfer:
		return "Bank Transfer"
	case models.MethodUSSD:
		return "USSD"
	case models.MethodPayOnDelivery:
		return "Pay on Delivery"
	default:
		return "Not selected"
	}
}

// FormatNaira renders a whole-naira amount with thousands separators,
// e.g. 7300 -> "₦7,300".
func FormatNaira(amount float64) string {
	return "₦" + groupThousands(int64(amount+0.5))
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var out strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		out.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(s[i : i+3])
	}
	return out.String()
}

func row(left, right string) string {
	pad := lineWidth - len([]rune(left)) - len([]rune(right))
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func center(s string) string {
	pad := (lineWidth - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// Render returns the plain-text customer copy. This is also the print
// fallback when PDF export is unavailable.
func Render(order *models.Order) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(center("CAFÉ BY ABUJACAR"))
	line(center("Where Luxury Meets Flavor"))
	line(center("Abuja, Nigeria"))
	line(center("Phone: +234 XXX XXX XXXX"))
	line(divider)

	line(row("Order #:", order.OrderRef))
	line(row("Date:", order.Date))
	line(row("Customer:", order.CustomerName))
	line(row("Phone:", order.CustomerPhone))
	line(divider)

	line("ITEMS:")
	for _, item := range order.Items {
		line(item.ProductName)
		qty := fmt.Sprintf("  %d x %s", item.Quantity, FormatNaira(item.UnitPrice))
		line(row(qty, FormatNaira(item.Subtotal())))
	}
	line(divider)

	line(row("Subtotal:", FormatNaira(order.Subtotal)))
	line(row("Delivery Fee:", FormatNaira(order.DeliveryFee)))
	line(row("TOTAL:", FormatNaira(order.Total)))
	line(divider)

	line(row("Payment Method:", MethodLabel(order.PaymentMethod)))
	line(row("Status:", PaymentStatusLabel(order)))
	line(divider)

	line("DELIVERY ADDRESS:")
	line("  " + order.DeliveryAddress)
	if order.Notes != "" {
		line("NOTES:")
		line("  " + order.Notes)
	}
	line(divider)

	line(center("Thank you for your order!"))
	line(center("We'll deliver it to your doorstep!"))
	line(center("*** CUSTOMER COPY ***"))

	return b.String()
}
