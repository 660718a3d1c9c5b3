package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/errs"
)

// AdminHandlers serves credential issuance and introspection.
type AdminHandlers struct {
	gate *auth.Gate
}

func NewAdminHandlers(gate *auth.Gate) *AdminHandlers {
	return &AdminHandlers{gate: gate}
}

// Login validates the configured admin identity and sets the credential as
// an HTTP-only cookie. The token is also returned for bearer-header clients.
func (h *AdminHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errs.Validationf("invalid request body"))
		return
	}

	token, expiresAt, err := h.gate.Login(req.Email, req.Password)
	if err != nil {
		respondErrorMessage(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"email":   req.Email,
		"token":   token,
		"message": "Login successful",
	})
}

// Me returns the verified admin claims, or 401.
func (h *AdminHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AdminFromContext(r.Context())
	if !ok {
		respondErrorMessage(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"email": claims.Email,
		"admin": true,
	})
}

// Logout clears the credential cookie. The token itself stays valid until
// expiry; the gate holds no server-side state to revoke.
func (h *AdminHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}
