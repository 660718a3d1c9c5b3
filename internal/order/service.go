package order

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/customer"
	"github.com/example/storefront/internal/errs"
	"github.com/example/storefront/internal/event"
)

// Repository persists orders. Transition must re-read the order under a row
// lock, apply fn, and persist the resulting tracking state atomically, so
// that concurrent admin actions on the same order cannot interleave.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListWithCustomers(ctx context.Context) ([]WithCustomer, error)
	Transition(ctx context.Context, orderID string, fn func(o *Order) error) (*Order, error)
}

// Publisher publishes order lifecycle events. A nil publisher disables
// publishing.
type Publisher interface {
	Publish(ctx context.Context, key string, e any) error
}

// CheckoutCustomer is the contact block of a checkout request.
type CheckoutCustomer struct {
	Email string `json:"email"`
	customer.Profile
}

// CheckoutItem is one client-declared order line. The unit price is captured
// into the order snapshot as-is; only the totals are recomputed server-side.
type CheckoutItem struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// CheckoutInput is a create-order request. Subtotal is advisory: the ledger
// recomputes it from the items and ignores the client's number.
type CheckoutInput struct {
	Customer      CheckoutCustomer `json:"customer"`
	Items         []CheckoutItem   `json:"items"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Shipping      *decimal.Decimal `json:"shipping"`
	Tax           *decimal.Decimal `json:"tax"`
	PaymentMethod string           `json:"payment_method"`
}

// Service is the order ledger and tracking state machine.
type Service struct {
	repo      Repository
	customers *customer.Registry
	publisher Publisher
}

func NewService(repo Repository, customers *customer.Registry, publisher Publisher) *Service {
	return &Service{repo: repo, customers: customers, publisher: publisher}
}

// Create resolves the customer, prices the order server-side, and persists
// it with an immutable item snapshot.
func (s *Service) Create(ctx context.Context, in CheckoutInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, errs.Validationf("order must have at least one item")
	}

	items := make([]Item, 0, len(in.Items))
	subtotal := decimal.Zero
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, errs.Validationf("item %d: quantity must be positive", i)
		}
		if it.Price == nil || it.Price.IsNegative() {
			return nil, errs.Validationf("item %d: price must be a non-negative number", i)
		}
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     *it.Price,
		})
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	shipping := orZero(in.Shipping)
	tax := orZero(in.Tax)
	if shipping.IsNegative() || tax.IsNegative() {
		return nil, errs.Validationf("shipping and tax must not be negative")
	}

	customerID, err := s.customers.Resolve(ctx, in.Customer.Email, in.Customer.Profile)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		Items:           items,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Total:           subtotal.Add(shipping).Add(tax),
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   "pending",
		TrackingStatus:  StatusPending,
		TrackingUpdates: []TrackingUpdate{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, o.ID, event.OrderCreated{
		OrderID:       o.ID,
		CustomerID:    customerID,
		CustomerEmail: in.Customer.Email,
		Total:         o.Total,
		CreatedAt:     now,
	}, event.TypeOrderCreated)

	return o, nil
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, errs.Validationf("order id is required")
	}
	return s.repo.Get(ctx, id)
}

// ListWithCustomers returns all orders joined with customer identity, newest
// first.
func (s *Service) ListWithCustomers(ctx context.Context) ([]WithCustomer, error) {
	return s.repo.ListWithCustomers(ctx)
}

// UpdateStatus transitions an order to a new tracking status, appending one
// audit entry. The current status is re-read transactionally before the
// transition is validated.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, target Status) (*Order, error) {
	return s.transition(ctx, orderID, target, "")
}

// AppendTrackingNote records a tracking note. With the order's current
// status it appends a note without transitioning; with any other status it
// performs a validated transition carrying the note.
func (s *Service) AppendTrackingNote(ctx context.Context, orderID string, status Status, note string) (*Order, error) {
	if orderID == "" {
		return nil, errs.Validationf("order id is required")
	}

	var from Status
	updated, err := s.repo.Transition(ctx, orderID, func(o *Order) error {
		from = o.TrackingStatus
		if status == o.TrackingStatus {
			o.appendNote(note, time.Now())
			return nil
		}
		return o.applyTransition(status, note, time.Now())
	})
	if err != nil {
		return nil, err
	}

	if from != updated.TrackingStatus {
		s.publish(ctx, orderID, event.TrackingChanged{
			OrderID:   orderID,
			From:      string(from),
			To:        string(updated.TrackingStatus),
			Note:      note,
			ChangedAt: updated.UpdatedAt,
		}, event.TypeTrackingChanged)
	}
	return updated, nil
}

func (s *Service) transition(ctx context.Context, orderID string, target Status, note string) (*Order, error) {
	if orderID == "" {
		return nil, errs.Validationf("order id is required")
	}

	var from Status
	updated, err := s.repo.Transition(ctx, orderID, func(o *Order) error {
		from = o.TrackingStatus
		return o.applyTransition(target, note, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, orderID, event.TrackingChanged{
		OrderID:   orderID,
		From:      string(from),
		To:        string(target),
		Note:      note,
		ChangedAt: updated.UpdatedAt,
	}, event.TypeTrackingChanged)

	return updated, nil
}

func (s *Service) publish(ctx context.Context, key string, data any, eventType string) {
	if s.publisher == nil {
		return
	}
	env, err := event.NewEnvelope(eventType, data)
	if err != nil {
		log.Printf("[Order] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, key, env); err != nil {
		log.Printf("[Order] Failed to publish %s event for order %s: %v", eventType, key, err)
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
