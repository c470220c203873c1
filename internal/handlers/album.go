package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AlbumHandler handles album-related HTTP requests
type AlbumHandler struct {
	albums   *services.AlbumService
	sessions *services.SessionStore
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(albums *services.AlbumService, sessions *services.SessionStore) *AlbumHandler {
	return &AlbumHandler{albums: albums, sessions: sessions}
}

// CreateAlbumRequest represents the request body for creating an album
type CreateAlbumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// Create handles POST /api/v1/albums
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, "title is required", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	album, err := h.albums.Create(r.Context(), sess, req.Title, req.Description, req.IsPublic)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("album_id", album.ID).Int64("user_id", sess.UserID).Msg("Album created")
	respondJSON(w, http.StatusCreated, album)
}

// Update handles PATCH /api/v1/albums/{albumID}
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "albumID")
	if err != nil {
		respondError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var update services.AlbumUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	album, err := h.albums.Update(r.Context(), sess, albumID, update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// Delete handles DELETE /api/v1/albums/{albumID}
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "albumID")
	if err != nil {
		respondError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.albums.Delete(r.Context(), sess, albumID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("album_id", albumID).Int64("user_id", sess.UserID).Msg("Album deleted")
	w.WriteHeader(http.StatusNoContent)
}

// UnlockRequest represents the request body for album unlock
type UnlockRequest struct {
	Password string `json:"password"`
}

// Unlock handles POST /api/v1/albums/{albumID}/access. A successful
// unlock is stored in the session and lasts until the session expires.
func (h *AlbumHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "albumID")
	if err != nil {
		respondError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.albums.Unlock(r.Context(), sess, albumID, req.Password); err != nil {
		if errors.Is(err, services.ErrIncorrectPassword) {
			respondJSON(w, http.StatusUnauthorized, map[string]bool{"granted": false})
			return
		}
		respondServiceError(w, err)
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to persist album unlock")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"granted": true})
}

// Search handles GET /api/v1/search?q=&scope=
func (h *AlbumHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	scope := r.URL.Query().Get("scope")

	sess := middleware.GetSession(r.Context())
	albums, err := h.albums.Search(r.Context(), sess, scope, query)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, albums)
}
