package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/storefront/internal/errs"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondErrorMessage(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondError maps an error to its HTTP status. Every failure carries a
// stable error kind; raw internal messages never reach the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		respondErrorMessage(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrUnauthorized):
		respondErrorMessage(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, errs.ErrNotFound):
		respondErrorMessage(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, errs.ErrInvalidTransition):
		respondErrorMessage(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errs.ErrTransient):
		w.Header().Set("Retry-After", "1")
		respondErrorMessage(w, "temporarily unavailable, retry later", http.StatusServiceUnavailable)
	default:
		log.Printf("[API] Internal error: %v", err)
		respondErrorMessage(w, "internal server error", http.StatusInternalServerError)
	}
}
