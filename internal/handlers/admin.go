package handlers

import (
	"net/http"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AdminHandler handles admin-only HTTP requests
type AdminHandler struct {
	users *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListSignupRequests handles GET /api/v1/admin/requests
func (h *AdminHandler) ListSignupRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.users.ListSignupRequests(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []models.SignupRequest{}
	}
	respondJSON(w, http.StatusOK, requests)
}

// ApproveSignup handles POST /api/v1/admin/requests/{requestID}/approve
func (h *AdminHandler) ApproveSignup(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		respondError(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	user, err := h.users.ApproveSignup(r.Context(), requestID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("request_id", requestID).
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("Signup request approved")
	respondJSON(w, http.StatusOK, user)
}

// RejectSignup handles POST /api/v1/admin/requests/{requestID}/reject
func (h *AdminHandler) RejectSignup(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		respondError(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.users.RejectSignup(r.Context(), requestID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("request_id", requestID).Msg("Signup request rejected")
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/v1/admin/users/{userID}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.users.DeleteUser(r.Context(), sess, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("user_id", userID).Int64("deleted_by", sess.UserID).Msg("User deleted")
	w.WriteHeader(http.StatusNoContent)
}
