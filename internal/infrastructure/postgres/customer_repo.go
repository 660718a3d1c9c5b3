package postgres

import (
	"context"
	"database/sql"

	"github.com/example/storefront/internal/customer"
)

const customerColumns = `id, email, name, phone, house, street, city, province,
	postal_code, landmark, comments, payment_status, created_at`

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// FindByEmail matches exactly and case-sensitively.
func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.House, &c.Street, &c.City,
		&c.Province, &c.PostalCode, &c.Landmark, &c.Comments, &c.PaymentStatus,
		&c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &c.House, &c.Street, &c.City,
		&c.Province, &c.PostalCode, &c.Landmark, &c.Comments, &c.PaymentStatus,
		&c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Insert creates the row unless the email already exists. The unique
// constraint on email serializes concurrent first-time resolves; a loser
// reports ok=false and no error.
func (r *CustomerRepo) Insert(ctx context.Context, c *customer.Customer) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers
			(id, email, name, phone, house, street, city, province, postal_code,
			 landmark, comments, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (email) DO NOTHING`,
		c.ID, c.Email, c.Name, c.Phone, c.House, c.Street, c.City, c.Province,
		c.PostalCode, c.Landmark, c.Comments, c.PaymentStatus, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return n == 1, nil
}
