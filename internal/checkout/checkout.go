// Package checkout validates contact details and turns a cart snapshot into
// a persisted order in its initial pending state.
package checkout

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/CyberG247/cafebyabujacar/internal/apperr"
	"github.com/CyberG247/cafebyabujacar/internal/guest"
	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// DeliveryFee is the flat delivery charge in naira.
const DeliveryFee = 500

// CartLine is one entry of the cart snapshot handed to Build. The builder
// copies it into an immutable order item; it never holds a live reference
// back into the catalog.
type CartLine struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// ContactInfo is the checkout form input.
type ContactInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z' -]+$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9() -]+$`)
)

// Validate checks the contact fields in order and stops at the first
// failure so the user sees one actionable message at a time. It returns the
// normalized info on success.
func Validate(info ContactInfo) (ContactInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	if len(info.Name) < 2 || len(info.Name) > 100 {
		return info, &apperr.ValidationError{Field: "name", Message: "Name must be between 2 and 100 characters"}
	}
	if !nameRe.MatchString(info.Name) {
		return info, &apperr.ValidationError{Field: "name", Message: "Name may only contain letters, spaces, hyphens and apostrophes"}
	}

	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	if info.Email != "" {
		if len(info.Email) > 255 || !emailRe.MatchString(info.Email) {
			return info, &apperr.ValidationError{Field: "email", Message: "Please enter a valid email address"}
		}
	}

	info.Phone = strings.TrimSpace(info.Phone)
	if len(info.Phone) < 10 || len(info.Phone) > 20 {
		return info, &apperr.ValidationError{Field: "phone", Message: "Phone number must be between 10 and 20 characters"}
	}
	if !phoneRe.MatchString(info.Phone) {
		return info, &apperr.ValidationError{Field: "phone", Message: "Phone number may only contain digits, spaces, parentheses, hyphens and a leading +"}
	}

	info.Address = strings.TrimSpace(info.Address)
	if len(info.Address) < 10 || len(info.Address) > 500 {
		return info, &apperr.ValidationError{Field: "address", Message: "Delivery address must be between 10 and 500 characters"}
	}

	info.Notes = strings.TrimSpace(info.Notes)
	return info, nil
}

// Build assembles an order from a cart snapshot and validated contact info.
// The caller is responsible for persisting the result; nothing is stored
// here, so a validation failure can never leave a partial order behind.
func Build(cart []CartLine, info ContactInfo) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	info, err := Validate(info)
	if err != nil {
		return nil, err
	}

	var items []models.OrderItem
	var subtotal float64
	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, &apperr.ValidationError{Field: "cart", Message: "Item quantity must be at least 1"}
		}
		if line.UnitPrice < 0 {
			return nil, &apperr.ValidationError{Field: "cart", Message: "Item price cannot be negative"}
		}
		item := models.OrderItem{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		items = append(items, item)
		subtotal += item.Subtotal()
	}

	token, err := guest.Issue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderRef:        GenerateOrderRef(now),
		GuestToken:      token,
		CustomerName:    info.Name,
		CustomerEmail:   info.Email,
		CustomerPhone:   info.Phone,
		DeliveryAddress: info.Address,
		Notes:           info.Notes,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     DeliveryFee,
		Total:           subtotal + DeliveryFee,
		Status:          models.StatusPending,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		Date:            now.Format("Jan 2, 2006 3:04 PM"),
	}
	return order, nil
}

// GenerateOrderRef synthesizes a friendly public order ID, e.g.
// "CAF-2025-4821".
func GenerateOrderRef(now time.Time) string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return "CAF-" + strconv.FormatInt(now.Unix(), 10)
	}
	suffix := (int(b[0])<<8 | int(b[1])) % 10000
	return fmt.Sprintf("CAF-%d-%04d", now.Year(), suffix)
}
