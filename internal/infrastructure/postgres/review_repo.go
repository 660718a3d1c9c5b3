package postgres

import (
	"context"
	"database/sql"

	"github.com/example/storefront/internal/review"
)

// ReviewRepo implements review.Repository.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) Insert(ctx context.Context, rv *review.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews
			(id, product_id, customer_email, customer_name, hide_name, rating,
			 comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rv.ID, rv.ProductID, rv.CustomerEmail, rv.CustomerName, rv.HideName,
		rv.Rating, rv.Comment, rv.CreatedAt)
	return mapError(err)
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]review.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, customer_email, customer_name, hide_name, rating,
		       comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reviews := []review.Review{}
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.CustomerEmail,
			&rv.CustomerName, &rv.HideName, &rv.Rating, &rv.Comment,
			&rv.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, mapError(rows.Err())
}
