package store

import (
	"context"
	"database/sql"
)

type DashboardStats struct {
	TotalProducts  int            `json:"total_products"`
	TotalOrders    int            `json:"total_orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
	PaidRevenue    float64        `json:"paid_revenue"`
	PendingRevenue float64        `json:"pending_revenue"`
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE status != 'archived'").Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, "SELECT COALESCE(SUM(total), 0) FROM orders WHERE payment_status = 'paid'").Scan(&stats.PaidRevenue)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx, "SELECT COALESCE(SUM(total), 0) FROM orders WHERE payment_status = 'pending'").Scan(&stats.PendingRevenue)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}
