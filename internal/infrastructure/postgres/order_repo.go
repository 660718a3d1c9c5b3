package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/example/storefront/internal/errs"
	"github.com/example/storefront/internal/order"
)

const orderColumns = `id, customer_id, order_items, subtotal, shipping, tax, total,
	payment_method, payment_status, tracking_status, tracking_updates,
	created_at, updated_at`

// OrderRepo implements order.Repository.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return mapError(err)
	}
	updates, err := json.Marshal(o.TrackingUpdates)
	if err != nil {
		return mapError(err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders
			(id, customer_id, order_items, subtotal, shipping, tax, total,
			 payment_method, payment_status, tracking_status, tracking_updates,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.CustomerID, items, o.Subtotal, o.Shipping, o.Tax, o.Total,
		o.PaymentMethod, o.PaymentStatus, o.TrackingStatus, updates,
		o.CreatedAt, o.UpdatedAt)
	return mapError(err)
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("order %s", id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

// ListWithCustomers returns all orders joined with customer identity, newest
// first.
func (r *OrderRepo) ListWithCustomers(ctx context.Context) ([]order.WithCustomer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.order_items, o.subtotal, o.shipping, o.tax,
		       o.total, o.payment_method, o.payment_status, o.tracking_status,
		       o.tracking_updates, o.created_at, o.updated_at,
		       COALESCE(c.email, ''), COALESCE(c.name, '')
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	orders := []order.WithCustomer{}
	for rows.Next() {
		var wc order.WithCustomer
		var items, updates []byte
		err := rows.Scan(&wc.ID, &wc.CustomerID, &items, &wc.Subtotal, &wc.Shipping,
			&wc.Tax, &wc.Total, &wc.PaymentMethod, &wc.PaymentStatus,
			&wc.TrackingStatus, &updates, &wc.CreatedAt, &wc.UpdatedAt,
			&wc.CustomerEmail, &wc.CustomerName)
		if err != nil {
			return nil, mapError(err)
		}
		if err := decodeOrderBlobs(&wc.Order, items, updates); err != nil {
			return nil, mapError(err)
		}
		orders = append(orders, wc)
	}
	return orders, mapError(rows.Err())
}

// CustomerID returns the customer id an order belongs to.
func (r *OrderRepo) CustomerID(ctx context.Context, orderID string) (string, error) {
	var customerID string
	err := r.db.QueryRowContext(ctx,
		`SELECT customer_id FROM orders WHERE id = $1`, orderID).Scan(&customerID)
	if err == sql.ErrNoRows {
		return "", errs.NotFoundf("order %s", orderID)
	}
	if err != nil {
		return "", mapError(err)
	}
	return customerID, nil
}

// Transition re-reads the order under a row lock, applies fn, and persists
// the resulting tracking state in the same transaction. fn errors roll the
// transaction back untouched.
func (r *OrderRepo) Transition(ctx context.Context, orderID string, fn func(o *order.Order) error) (*order.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("order %s", orderID)
	}
	if err != nil {
		return nil, mapError(err)
	}

	if err := fn(o); err != nil {
		return nil, err
	}

	updates, err := json.Marshal(o.TrackingUpdates)
	if err != nil {
		return nil, mapError(err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET tracking_status = $1, tracking_updates = $2, updated_at = $3
		WHERE id = $4`,
		o.TrackingStatus, updates, o.UpdatedAt, orderID)
	if err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var items, updates []byte
	err := row.Scan(&o.ID, &o.CustomerID, &items, &o.Subtotal, &o.Shipping,
		&o.Tax, &o.Total, &o.PaymentMethod, &o.PaymentStatus, &o.TrackingStatus,
		&updates, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeOrderBlobs(&o, items, updates); err != nil {
		return nil, err
	}
	return &o, nil
}

func decodeOrderBlobs(o *order.Order, items, updates []byte) error {
	o.Items = []order.Item{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return err
		}
	}
	o.TrackingUpdates = []order.TrackingUpdate{}
	if len(updates) > 0 {
		if err := json.Unmarshal(updates, &o.TrackingUpdates); err != nil {
			return err
		}
	}
	return nil
}
