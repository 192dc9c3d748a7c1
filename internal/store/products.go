package store

import (
	"context"
	"database/sql"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

// GetPublicProducts lists the menu, optionally filtered by category.
// Archived products never appear publicly.
func (s *Store) GetPublicProducts(ctx context.Context, category string) ([]models.Product, error) {
	query := `
		SELECT id, name, description, price, category, COALESCE(image_url, '') as image_url, featured, created_at
		FROM products
		WHERE status != 'archived'
	`
	args := []any{}
	if category != "" && category != "all" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY featured DESC, id`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Featured, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, COALESCE(image_url, '') as image_url, featured, created_at
		FROM products WHERE id = ?
	`, id)

	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Featured, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO products (name, description, price, category, image_url, featured)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Featured)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_url = ?, featured = ? WHERE id = ?
	`, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Featured, p.ID)
	return err
}

// ArchiveProduct hides a product from the menu without touching orders that
// snapshotted its price.
func (s *Store) ArchiveProduct(ctx context.Context, id int) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE products SET status = 'archived' WHERE id = ?`, id)
	return err
}

// SeedProducts inserts the standard menu once, on an empty catalog.
func (s *Store) SeedProducts(ctx context.Context) error {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil && err != sql.ErrNoRows {
		return err
	}
	if count > 0 {
		return nil
	}

	menu := []models.Product{
		{Name: "Signature Cappuccino", Description: "Rich espresso with velvety steamed milk and perfect foam art", Price: 2500, Category: "coffee", Featured: true},
		{Name: "Chocolate Croissant", Description: "Buttery, flaky croissant filled with premium dark chocolate", Price: 1800, Category: "pastries", Featured: true},
		{Name: "Grilled Chicken Salad", Description: "Fresh mixed greens with perfectly grilled chicken and house dressing", Price: 4500, Category: "meals", Featured: true},
		{Name: "Tropical Iced Tea", Description: "Refreshing iced tea with tropical fruit infusion", Price: 2000, Category: "beverages", Featured: true},
		{Name: "Café Latte", Description: "Smooth espresso with steamed milk, perfectly balanced", Price: 2300, Category: "coffee"},
		{Name: "Espresso", Description: "Bold, concentrated coffee shot with rich crema", Price: 1500, Category: "coffee"},
		{Name: "Almond Biscotti", Description: "Twice-baked Italian cookies, perfect with coffee", Price: 1200, Category: "pastries"},
		{Name: "Club Sandwich", Description: "Triple-decker sandwich with chicken, bacon, and fresh vegetables", Price: 3800, Category: "meals"},
	}

	for i := range menu {
		if err := s.CreateProduct(ctx, &menu[i]); err != nil {
			return err
		}
	}
	return nil
}
