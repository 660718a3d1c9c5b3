package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/errs"
	"github.com/example/storefront/internal/order"
)

// OrderHandlers serves checkout and fulfillment endpoints.
type OrderHandlers struct {
	orders *order.Service
}

func NewOrderHandlers(svc *order.Service) *OrderHandlers {
	return &OrderHandlers{orders: svc}
}

// CreateOrder handles checkout. Public: the customer is resolved (or
// created) from the request's contact block.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in order.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}

	o, err := h.orders.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// ListOrders returns all orders joined with customer identity. Admin only.
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListWithCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type trackingRequest struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Payload struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	} `json:"payload"`
}

// UpdateOrder dispatches tracking mutations: update_status transitions the
// order, add_tracking appends a note (transitioning when the status
// differs). Admin only.
func (h *OrderHandlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}
	if req.ID == "" {
		respondError(w, errs.Validationf("order id is required"))
		return
	}

	status, err := order.ParseStatus(req.Payload.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	var updated *order.Order
	switch req.Action {
	case "update_status":
		updated, err = h.orders.UpdateStatus(r.Context(), req.ID, status)
	case "add_tracking":
		updated, err = h.orders.AppendTrackingNote(r.Context(), req.ID, status, req.Payload.Note)
	default:
		respondError(w, errs.Validationf("unknown action %q", req.Action))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
