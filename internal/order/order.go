package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/errs"
)

// Status is an order's fulfillment state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// validTransitions defines the allowed fulfillment transitions. delivered
// and cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ParseStatus validates a status string coming off the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", errs.Validationf("unknown tracking status %q", s)
}

// CanTransitionTo checks whether the target status is reachable from s.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(validTransitions[s]) == 0
}

func transitionError(from, to Status) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", errs.ErrInvalidTransition, from, to)
}

// TrackingUpdate is one audit-trail entry. Entries are append-only and never
// edited or removed.
type TrackingUpdate struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Item is one line of the order's immutable snapshot: the catalog data
// captured at checkout, immune to later catalog edits.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a persisted order. Total always equals Subtotal + Shipping + Tax;
// it is computed server-side and never taken from a client.
type Order struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customer_id"`
	Items           []Item           `json:"order_items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Shipping        decimal.Decimal  `json:"shipping"`
	Tax             decimal.Decimal  `json:"tax"`
	Total           decimal.Decimal  `json:"total"`
	PaymentMethod   string           `json:"payment_method"`
	PaymentStatus   string           `json:"payment_status"`
	TrackingStatus  Status           `json:"tracking_status"`
	TrackingUpdates []TrackingUpdate `json:"tracking_updates"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// applyTransition moves the order to the target status and appends exactly
// one audit entry. It does not touch persistence.
func (o *Order) applyTransition(target Status, note string, now time.Time) error {
	if !o.TrackingStatus.CanTransitionTo(target) {
		return transitionError(o.TrackingStatus, target)
	}
	o.TrackingStatus = target
	o.TrackingUpdates = append(o.TrackingUpdates, TrackingUpdate{
		Status:    target,
		Note:      note,
		Timestamp: now,
	})
	o.UpdatedAt = now
	return nil
}

// appendNote records a note at the current status without transitioning.
func (o *Order) appendNote(note string, now time.Time) {
	o.TrackingUpdates = append(o.TrackingUpdates, TrackingUpdate{
		Status:    o.TrackingStatus,
		Note:      note,
		Timestamp: now,
	})
	o.UpdatedAt = now
}

// WithCustomer joins an order with its customer identity for admin listings.
type WithCustomer struct {
	Order
	CustomerEmail string `json:"email"`
	CustomerName  string `json:"customer_name"`
}
