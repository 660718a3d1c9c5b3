package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/errs"
)

// ProductHandlers serves the catalog endpoints.
type ProductHandlers struct {
	catalog *catalog.Service
}

func NewProductHandlers(svc *catalog.Service) *ProductHandlers {
	return &ProductHandlers{catalog: svc}
}

// GetProducts returns the full listing, or a single product when ?id= is
// given. Public.
func (h *ProductHandlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		product, err := h.catalog.Get(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, product)
		return
	}

	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// CreateProduct creates a product. Admin only.
func (h *ProductHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}

	product, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct applies a partial update. The body carries the id plus any
// allow-listed fields; anything else is silently ignored. Admin only.
func (h *ProductHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
		catalog.Update
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}
	if req.ID == "" {
		respondError(w, errs.Validationf("product id is required"))
		return
	}

	product, err := h.catalog.Update(r.Context(), req.ID, req.Update)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct hard-deletes a product and returns the deleted snapshot.
// Admin only.
func (h *ProductHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, errs.Validationf("product id is required"))
		return
	}

	deleted, err := h.catalog.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}
