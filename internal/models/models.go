package models

import (
	"time"
)

// Fulfillment status of an order, from placement to delivery.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
)

// Payment status is a separate axis from fulfillment: a pay-on-delivery
// order is "confirmed" while its payment is still "pending".
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Supported payment methods.
const (
	MethodCard          = "card"
	MethodTransfer      = "transfer"
	MethodUSSD          = "ussd"
	MethodPayOnDelivery = "pod"
)

// StatusRank orders fulfillment statuses along the delivery pipeline.
// Unknown statuses rank as pending.
func StatusRank(status string) int {
	switch status {
	case StatusConfirmed:
		return 1
	case StatusPreparing:
		return 2
	case StatusOutForDelivery:
		return 3
	case StatusDelivered:
		return 4
	default:
		return 0
	}
}

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"` // "coffee", "pastries", "meals", "beverages"
	ImageURL    string    `json:"image_url"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderItem is a snapshot of a cart line at checkout time. Prices are
// copied from the catalog so later price changes never touch placed orders.
type OrderItem struct {
	ID          int     `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID              int         `json:"-"`
	OrderRef        string      `json:"order_id"` // Public "CAF-2025-1234" ID
	GuestToken      string      `json:"-"`        // Never serialized; proves guest ownership
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	CustomerPhone   string      `json:"customer_phone"`
	DeliveryAddress string      `json:"delivery_address"`
	Notes           string      `json:"notes,omitempty"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	DeliveryFee     float64     `json:"delivery_fee"`
	Total           float64     `json:"total"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	CreatedAt       time.Time   `json:"created_at"`
	Date            string      `json:"date"` // Human-readable snapshot for the receipt
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // Store hashed password
}
