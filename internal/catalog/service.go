package catalog

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/errs"
)

// Repository persists products. Implementations own their transactional
// boundary.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, u Update) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
}

// ListCache caches the full product listing. A nil cache disables caching.
type ListCache interface {
	GetList(ctx context.Context) ([]Product, bool)
	SetList(ctx context.Context, products []Product)
	Invalidate(ctx context.Context)
}

// CreateInput carries the fields a client may set when creating a product.
// Anything else in the request body is silently ignored: internal columns
// (id, created_at) are not part of this struct, so they can never be set
// from outside.
type CreateInput struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	StockLeft       *decimal.Decimal `json:"stock_left"`
	CompanyName     string           `json:"company_name"`
	PackingPrice    *decimal.Decimal `json:"packing_price"`
	ShippingPrice   *decimal.Decimal `json:"shipping_price"`
	Tax             *decimal.Decimal `json:"tax"`
	Images          []string         `json:"images"`
	Colours         any              `json:"colours"`
	Variants        any              `json:"variants"`
	Video           string           `json:"video"`
}

// Update carries a partial product update. Nil fields are left untouched;
// fields outside this allow-list never reach the store.
type Update struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	StockLeft       *decimal.Decimal `json:"stock_left"`
	CompanyName     *string          `json:"company_name"`
	PackingPrice    *decimal.Decimal `json:"packing_price"`
	ShippingPrice   *decimal.Decimal `json:"shipping_price"`
	Tax             *decimal.Decimal `json:"tax"`
	Images          *[]string        `json:"images"`
	Colours         *any             `json:"colours"`
	Variants        *any             `json:"variants"`
	Video           *string          `json:"video"`
}

// Empty reports whether the update carries no recognized field.
func (u Update) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.DiscountedPrice == nil && u.StockLeft == nil && u.CompanyName == nil &&
		u.PackingPrice == nil && u.ShippingPrice == nil && u.Tax == nil &&
		u.Images == nil && u.Colours == nil && u.Variants == nil && u.Video == nil
}

// Service is the catalog store.
type Service struct {
	repo  Repository
	cache ListCache
}

func NewService(repo Repository, cache ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetList(ctx); ok {
			return products, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetList(ctx, products)
	}
	return products, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, errs.Validationf("product id is required")
	}
	return s.repo.Get(ctx, id)
}

// Create validates the input and persists a new product.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	if in.Name == "" || in.Price == nil {
		return nil, errs.Validationf("name and price are required")
	}
	if in.Price.IsNegative() {
		return nil, errs.Validationf("price must not be negative")
	}
	if in.DiscountedPrice != nil && !in.DiscountedPrice.LessThan(*in.Price) {
		return nil, errs.Validationf("discounted_price must be less than price")
	}

	stock, err := coerceStock(in.StockLeft)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Description:     in.Description,
		Price:           *in.Price,
		DiscountedPrice: in.DiscountedPrice,
		StockLeft:       stock,
		CompanyName:     in.CompanyName,
		PackingPrice:    orZero(in.PackingPrice),
		ShippingPrice:   orZero(in.ShippingPrice),
		Tax:             orZero(in.Tax),
		Images:          in.Images,
		Colours:         in.Colours,
		Variants:        in.Variants,
		Video:           in.Video,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.PackingPrice.IsNegative() || p.ShippingPrice.IsNegative() || p.Tax.IsNegative() {
		return nil, errs.Validationf("packing_price, shipping_price and tax must not be negative")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Update applies a partial update to a product.
func (s *Service) Update(ctx context.Context, id string, u Update) (*Product, error) {
	if id == "" {
		return nil, errs.Validationf("product id is required")
	}
	if u.Empty() {
		return nil, errs.Validationf("no valid fields to update")
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	price := current.Price
	if u.Price != nil {
		if u.Price.IsNegative() {
			return nil, errs.Validationf("price must not be negative")
		}
		price = *u.Price
	}
	// The discount that will be in effect after the update, whether it comes
	// from the request or is already stored, must stay below the new price.
	discounted := current.DiscountedPrice
	if u.DiscountedPrice != nil {
		discounted = u.DiscountedPrice
	}
	if discounted != nil && !discounted.LessThan(price) {
		return nil, errs.Validationf("discounted_price must be less than price")
	}
	if u.StockLeft != nil {
		if _, err := coerceStock(u.StockLeft); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a product and returns the deleted snapshot.
func (s *Service) Delete(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, errs.Validationf("product id is required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return deleted, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
		log.Printf("[Catalog] listing cache invalidated")
	}
}

func coerceStock(d *decimal.Decimal) (int64, error) {
	if d == nil {
		return 0, nil
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, errs.Validationf("stock_left must be a non-negative integer")
	}
	return d.IntPart(), nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
