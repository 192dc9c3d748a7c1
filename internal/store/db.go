package store

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Store struct {
	DB *sql.DB

	// Notifier, when set, receives an event for every order change so open
	// tracking views can update live. Optional.
	Notifier *Notifier
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// WAL keeps reads (tracking views) from blocking writes (checkout,
	// settlement, staff updates).
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		category TEXT NOT NULL DEFAULT 'coffee',
		image_url TEXT,
		featured INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'available',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_ref TEXT NOT NULL UNIQUE,
		guest_token TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		subtotal REAL NOT NULL,
		delivery_fee REAL NOT NULL,
		total REAL NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		date_label TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		slog.Error("Error creating schema", "error", err)
		return err
	}
	return nil
}
