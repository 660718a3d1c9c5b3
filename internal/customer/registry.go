// Package customer resolves contact identities by email, creating one on
// first sight.
package customer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/errs"
)

// Customer is a contact identity keyed by email. Identity fields are
// first-write-wins: repeat orders never overwrite them.
type Customer struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	House         string    `json:"house"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	Province      string    `json:"province"`
	PostalCode    string    `json:"postal_code"`
	Landmark      string    `json:"landmark"`
	Comments      string    `json:"comments"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile carries the identity fields supplied at checkout. They are only
// applied when the email has never been seen before.
type Profile struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	House      string `json:"house"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Landmark   string `json:"landmark"`
	Comments   string `json:"comments"`
}

// Repository persists customers. FindByEmail matches emails case-sensitively.
// Insert must guarantee at most one row per email even under concurrent
// calls; a losing insert reports ok=false without error.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Insert(ctx context.Context, c *Customer) (ok bool, err error)
}

// Registry resolves a customer id for an email, creating the row on first
// sight.
type Registry struct {
	repo Repository
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// Resolve returns the id of the customer with the given email. A previously
// unseen email creates a new row with payment_status "pending"; a known
// email returns the existing id and ignores the profile. Two concurrent
// first-time resolves for the same email both receive the same id.
func (r *Registry) Resolve(ctx context.Context, email string, profile Profile) (string, error) {
	if email == "" {
		return "", errs.Validationf("customer email is required")
	}

	existing, err := r.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	c := &Customer{
		ID:            uuid.New().String(),
		Email:         email,
		Name:          profile.Name,
		Phone:         profile.Phone,
		House:         profile.House,
		Street:        profile.Street,
		City:          profile.City,
		Province:      profile.Province,
		PostalCode:    profile.PostalCode,
		Landmark:      profile.Landmark,
		Comments:      profile.Comments,
		PaymentStatus: "pending",
		CreatedAt:     time.Now(),
	}
	ok, err := r.repo.Insert(ctx, c)
	if err != nil {
		return "", err
	}
	if ok {
		return c.ID, nil
	}

	// Lost the race: another request created the row between our lookup and
	// insert. Return the winner's id.
	winner, err := r.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if winner == nil {
		return "", errs.Transientf("customer %s vanished during resolve", email)
	}
	return winner.ID, nil
}
