// Package review stores per-product customer reviews. Reviews are
// append-only from the public surface: no edit or delete is exposed.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/errs"
)

// AnonymousName is shown in place of the customer name when a reviewer asked
// to hide it.
const AnonymousName = "Anonymous"

// Review is one customer review of a product. Reviews are independent of
// orders: no purchase verification applies.
type Review struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	HideName      bool      `json:"hide_name"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the name to show for this review.
func (r Review) DisplayName() string {
	if r.HideName || r.CustomerName == "" {
		return AnonymousName
	}
	return r.CustomerName
}

// Input is a review submission.
type Input struct {
	ProductID     string `json:"product_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	HideName      bool   `json:"hide_name"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// Repository persists reviews.
type Repository interface {
	Insert(ctx context.Context, r *Review) error
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
}

// Service is the review aggregator.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add validates and stores a review.
func (s *Service) Add(ctx context.Context, in Input) (*Review, error) {
	if in.ProductID == "" || in.CustomerEmail == "" || in.Comment == "" {
		return nil, errs.Validationf("product_id, customer_email, rating and comment are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errs.Validationf("rating must be between 1 and 5")
	}

	r := &Review{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		CustomerEmail: in.CustomerEmail,
		CustomerName:  in.CustomerName,
		HideName:      in.HideName,
		Rating:        in.Rating,
		Comment:       in.Comment,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Insert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListByProduct returns a product's reviews, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	if productID == "" {
		return nil, errs.Validationf("product id is required")
	}
	return s.repo.ListByProduct(ctx, productID)
}
