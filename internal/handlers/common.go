package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"photoshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps the service failure taxonomy onto HTTP status
// codes. Password gate failures carry a machine-readable flag so the
// client can prompt for the album password.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		respondError(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, services.ErrSelfDelete):
		respondError(w, "Cannot delete your own account", http.StatusForbidden)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateUser):
		respondError(w, "Username or email already exists", http.StatusBadRequest)
	case errors.Is(err, services.ErrQuotaExceeded):
		respondError(w, "Storage quota exceeded", http.StatusRequestEntityTooLarge)
	case errors.Is(err, services.ErrPasswordRequired):
		respondJSON(w, http.StatusForbidden, map[string]bool{"requiresPassword": true})
	case errors.Is(err, services.ErrIncorrectPassword):
		respondJSON(w, http.StatusUnauthorized, map[string]bool{"granted": false})
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses a numeric URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
