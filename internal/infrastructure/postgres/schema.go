package postgres

import "database/sql"

// EnsureSchema creates the tables this service owns if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			price            NUMERIC NOT NULL,
			discounted_price NUMERIC,
			stock_left       BIGINT NOT NULL DEFAULT 0,
			company_name     TEXT NOT NULL DEFAULT '',
			packing_price    NUMERIC NOT NULL DEFAULT 0,
			shipping_price   NUMERIC NOT NULL DEFAULT 0,
			tax              NUMERIC NOT NULL DEFAULT 0,
			images           JSONB,
			colours          JSONB,
			variants         JSONB,
			video            TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id             TEXT PRIMARY KEY,
			email          TEXT NOT NULL UNIQUE,
			name           TEXT NOT NULL DEFAULT '',
			phone          TEXT NOT NULL DEFAULT '',
			house          TEXT NOT NULL DEFAULT '',
			street         TEXT NOT NULL DEFAULT '',
			city           TEXT NOT NULL DEFAULT '',
			province       TEXT NOT NULL DEFAULT '',
			postal_code    TEXT NOT NULL DEFAULT '',
			landmark       TEXT NOT NULL DEFAULT '',
			comments       TEXT NOT NULL DEFAULT '',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id               TEXT PRIMARY KEY,
			customer_id      TEXT NOT NULL REFERENCES customers(id),
			order_items      JSONB NOT NULL,
			subtotal         NUMERIC NOT NULL,
			shipping         NUMERIC NOT NULL DEFAULT 0,
			tax              NUMERIC NOT NULL DEFAULT 0,
			total            NUMERIC NOT NULL,
			payment_method   TEXT NOT NULL DEFAULT '',
			payment_status   TEXT NOT NULL DEFAULT 'pending',
			tracking_status  TEXT NOT NULL DEFAULT 'pending',
			tracking_updates JSONB NOT NULL DEFAULT '[]',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id             TEXT PRIMARY KEY,
			product_id     TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_name  TEXT NOT NULL DEFAULT '',
			hide_name      BOOLEAN NOT NULL DEFAULT FALSE,
			rating         INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment        TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews (product_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders (created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
