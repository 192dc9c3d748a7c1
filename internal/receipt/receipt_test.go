package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

func settledOrder(paymentStatus string) *models.Order {
	return &models.Order{
		OrderRef:        "CAF-2025-7301",
		CustomerName:    "Amaka Obi",
		CustomerPhone:   "+2348012345678",
		DeliveryAddress: "12 Example Street, Abuja",
		Items: []models.OrderItem{
			{ProductName: "Signature Cappuccino", Quantity: 2, UnitPrice: 2500},
			{ProductName: "Chocolate Croissant", Quantity: 1, UnitPrice: 1800},
		},
		Subtotal:      6800,
		DeliveryFee:   500,
		Total:         7300,
		PaymentMethod: models.MethodCard,
		Status:        models.StatusConfirmed,
		PaymentStatus: paymentStatus,
		CreatedAt:     time.Now(),
		Date:          "Jun 1, 2025 12:00 PM",
	}
}

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "₦500", FormatNaira(500))
	assert.Equal(t, "₦7,300", FormatNaira(7300))
	assert.Equal(t, "₦1,250,000", FormatNaira(1250000))
	assert.Equal(t, "₦0", FormatNaira(0))
}

func TestRenderPaidOrder(t *testing.T) {
	text := Render(settledOrder(models.PaymentPaid))

	assert.Contains(t, text, "CAFÉ BY ABUJACAR")
	assert.Contains(t, text, "CAF-2025-7301")
	assert.Contains(t, text, "Signature Cappuccino")
	assert.Contains(t, text, "₦6,800")
	assert.Contains(t, text, "₦7,300")
	assert.Contains(t, text, "PAID SUCCESSFUL")
	assert.Contains(t, text, "12 Example Street, Abuja")
	assert.Contains(t, text, "*** CUSTOMER COPY ***")
}

func TestRenderPendingPaymentOrder(t *testing.T) {
	order := settledOrder(models.PaymentPending)
	order.PaymentMethod = models.MethodPayOnDelivery

	text := Render(order)
	assert.Contains(t, text, "PENDING PAYMENT")
	assert.Contains(t, text, "Pay on Delivery")
	assert.NotContains(t, text, "PAID SUCCESSFUL")
}

func TestRenderDoesNotMutateOrder(t *testing.T) {
	order := settledOrder(models.PaymentPaid)
	before := *order
	_ = Render(order)
	assert.Equal(t, before, *order)
}

func TestRenderLineItemMath(t *testing.T) {
	text := Render(settledOrder(models.PaymentPaid))
	assert.Contains(t, text, "2 x ₦2,500")
	assert.Contains(t, text, "₦5,000")
	assert.Contains(t, text, "1 x ₦1,800")
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(settledOrder(models.PaymentPaid))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"), "output must be a PDF document")
}
