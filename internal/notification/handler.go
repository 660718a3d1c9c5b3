// Package notification turns order events into customer emails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/customer"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/event"
)

// CustomerLookup resolves a customer id to its identity. Returns nil when
// the customer does not exist.
type CustomerLookup interface {
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
}

// OrderLookup resolves an order id to its customer id.
type OrderLookup interface {
	CustomerID(ctx context.Context, orderID string) (string, error)
}

// Handler processes order events from the event stream and sends emails.
type Handler struct {
	emailService *email.Service
	customers    CustomerLookup
	orders       OrderLookup
}

func NewHandler(emailSvc *email.Service, customers CustomerLookup, orders OrderLookup) *Handler {
	return &Handler{
		emailService: emailSvc,
		customers:    customers,
		orders:       orders,
	}
}

// HandleEvent processes one event off the stream. Unknown event types are
// skipped.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env event.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch env.Type {
	case event.TypeOrderCreated:
		return h.handleOrderCreated(ctx, env)
	case event.TypeTrackingChanged:
		return h.handleTrackingChanged(ctx, env)
	}
	return nil
}

func (h *Handler) handleOrderCreated(ctx context.Context, env event.Envelope) error {
	var e event.OrderCreated
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal %s event: %v", env.Type, err)
		return err
	}
	if e.CustomerEmail == "" {
		log.Printf("[Notifier] No customer email on order %s, skipping", e.OrderID)
		return nil
	}

	if err := h.emailService.SendOrderConfirmation(e.CustomerEmail, e.OrderID, e.Total); err != nil {
		log.Printf("[Notifier] Failed to send confirmation to %s: %v", e.CustomerEmail, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", e.CustomerEmail, e.OrderID)
	return nil
}

func (h *Handler) handleTrackingChanged(ctx context.Context, env event.Envelope) error {
	var e event.TrackingChanged
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal %s event: %v", env.Type, err)
		return err
	}

	to := h.recipientForOrder(ctx, e.OrderID)
	if to == "" {
		log.Printf("[Notifier] No recipient for order %s, skipping tracking update", e.OrderID)
		return nil
	}

	if err := h.emailService.SendTrackingUpdate(to, e.OrderID, e.To, e.Note); err != nil {
		log.Printf("[Notifier] Failed to send tracking update to %s: %v", to, err)
		return err
	}

	log.Printf("[Notifier] Tracking update (%s) sent to %s for order %s", e.To, to, e.OrderID)
	return nil
}

func (h *Handler) recipientForOrder(ctx context.Context, orderID string) string {
	customerID, err := h.orders.CustomerID(ctx, orderID)
	if err != nil {
		log.Printf("[Notifier] Error resolving order %s: %v", orderID, err)
		return ""
	}
	c, err := h.customers.FindByID(ctx, customerID)
	if err != nil {
		log.Printf("[Notifier] Error resolving customer %s: %v", customerID, err)
		return ""
	}
	if c == nil {
		return ""
	}
	return c.Email
}
