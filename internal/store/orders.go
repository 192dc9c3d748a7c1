package store

import (
	"context"
	"fmt"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// CreateOrder persists an order and its line items in one transaction.
// Either everything lands or nothing does; a failed checkout never leaves a
// partial order behind.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_ref, guest_token, customer_name, customer_email, customer_phone, delivery_address, notes, subtotal, delivery_fee, total, payment_method, status, payment_status, created_at, date_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, order.OrderRef, order.GuestToken, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.DeliveryAddress, order.Notes, order.Subtotal, order.DeliveryFee, order.Total,
		order.PaymentMethod, order.Status, order.PaymentStatus, order.CreatedAt, order.Date)
	if err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderRef, err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderRef, err)
	}
	order.ID = int(orderID)

	for i := range order.Items {
		item := &order.Items[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_name, quantity, unit_price)
			VALUES (?, ?, ?, ?)
		`, orderID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("create order %s items: %w", order.OrderRef, err)
		}
		itemID, _ := res.LastInsertId()
		item.ID = int(itemID)
	}

	return tx.Commit()
}

// GetOrderByRef loads an order with its line items. Token checking is the
// tracker's job; this returns the stored guest token for it to compare.
func (s *Store) GetOrderByRef(ctx context.Context, orderRef string) (*models.Order, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, order_ref, guest_token, customer_name, customer_email, customer_phone, delivery_address, notes, subtotal, delivery_fee, total, payment_method, status, payment_status, created_at, date_label
		FROM orders WHERE order_ref = ?
	`, orderRef)

	var o models.Order
	if err := row.Scan(&o.ID, &o.OrderRef, &o.GuestToken, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.DeliveryAddress, &o.Notes, &o.Subtotal, &o.DeliveryFee, &o.Total,
		&o.PaymentMethod, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.Date); err != nil {
		return nil, err
	}

	items, err := s.getOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *Store) getOrderItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, product_name, quantity, unit_price FROM order_items WHERE order_id = ? ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateOrderPayment records a settlement: payment method plus both status
// axes in one statement.
func (s *Store) UpdateOrderPayment(ctx context.Context, orderRef, method, paymentStatus, status string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET payment_method = ?, payment_status = ?, status = ? WHERE order_ref = ?
	`, method, paymentStatus, status, orderRef)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", orderRef, err)
	}
	s.notify(orderRef)
	return nil
}

// UpdateOrderStatus is the staff-side fulfillment update that drives live
// tracking mode.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderRef, status string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE orders SET status = ? WHERE order_ref = ?`, status, orderRef)
	if err != nil {
		return fmt.Errorf("update status %s: %w", orderRef, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update status %s: no such order", orderRef)
	}
	s.notify(orderRef)
	return nil
}

func (s *Store) notify(orderRef string) {
	if s.Notifier == nil {
		return
	}
	order, err := s.GetOrderByRef(context.Background(), orderRef)
	if err != nil {
		return
	}
	s.Notifier.Publish(OrderEvent{
		OrderRef:      order.OrderRef,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
	})
}

func (s *Store) GetAllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, order_ref, customer_name, customer_phone, delivery_address, subtotal, delivery_fee, total, payment_method, status, payment_status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderRef, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
			&o.Subtotal, &o.DeliveryFee, &o.Total, &o.PaymentMethod, &o.Status, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) GetTotalOrdersCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
