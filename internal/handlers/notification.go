package handlers

import (
	"net/http"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
)

// NotificationHandler handles likes and notification HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Like handles POST /api/v1/media/{mediaID}/like
func (h *NotificationHandler) Like(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r, "mediaID")
	if err != nil {
		respondError(w, "Invalid media id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.notifications.Like(r.Context(), sess, mediaID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"liked": true})
}

// Unlike handles DELETE /api/v1/media/{mediaID}/like
func (h *NotificationHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r, "mediaID")
	if err != nil {
		respondError(w, "Invalid media id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.notifications.Unlike(r.Context(), sess, mediaID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"liked": false})
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	notifications, err := h.notifications.List(r.Context(), sess.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/v1/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if err := h.notifications.MarkRead(r.Context(), sess.UserID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
