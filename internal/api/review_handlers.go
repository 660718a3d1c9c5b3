package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/errs"
	"github.com/example/storefront/internal/review"
)

// ReviewHandlers serves the public review endpoints.
type ReviewHandlers struct {
	reviews *review.Service
}

func NewReviewHandlers(svc *review.Service) *ReviewHandlers {
	return &ReviewHandlers{reviews: svc}
}

type reviewResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	CustomerName string `json:"customer_name"`
	HideName     bool   `json:"hide_name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
}

// toReviewResponse masks hidden names; the stored email never leaves the
// service.
func toReviewResponse(rv review.Review) reviewResponse {
	return reviewResponse{
		ID:           rv.ID,
		ProductID:    rv.ProductID,
		CustomerName: rv.DisplayName(),
		HideName:     rv.HideName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAt:    rv.CreatedAt.Format(time.RFC3339),
	}
}

// ListByProduct returns a product's reviews, newest first. Hidden names are
// replaced before anything leaves the service.
func (h *ReviewHandlers) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimPrefix(r.URL.Path, "/reviews/")
	reviews, err := h.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewResponse(rv))
	}
	respondJSON(w, http.StatusOK, out)
}

// Add stores a review. Public but validated.
func (h *ReviewHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var in review.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}

	rv, err := h.reviews.Add(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewResponse(*rv))
}
