package handlers

import (
	"errors"
	"io"
	"net/http"

	"photoshare-backend/internal/middleware"
	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// multipartSlack covers multipart framing and form fields on top of the
// file payload when capping the request body.
const multipartSlack = 1 << 20

// MediaHandler handles media upload, listing and deletion
type MediaHandler struct {
	media *services.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload handles POST /api/v1/albums/{albumID}/media. The payload is a
// multipart form with a single "file" part.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "albumID")
	if err != nil {
		respondError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	// The body cap follows the configured quota, so the reader never
	// rejects an upload the quota tracker would admit. Anything past the
	// cap cannot fit any owner's quota and is refused with the same
	// taxonomy as a quota rejection.
	r.Body = http.MaxBytesReader(w, r.Body, h.media.QuotaLimit()+multipartSlack)
	file, header, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respondServiceError(w, services.ErrQuotaExceeded)
			return
		}
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			respondServiceError(w, services.ErrQuotaExceeded)
			return
		}
		respondError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	sess := middleware.GetSession(r.Context())
	media, err := h.media.Upload(r.Context(), sess, albumID, header.Filename, contentType, data)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("media_id", media.ID).
		Int64("album_id", albumID).
		Int64("size_bytes", media.SizeBytes).
		Str("type", media.Type).
		Msg("Media uploaded")
	respondJSON(w, http.StatusCreated, media)
}

// isBodyTooLarge reports whether the error came from the request body
// cap rather than a malformed form.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// AlbumMediaResponse bundles an album with its media listing
type AlbumMediaResponse struct {
	Album *models.Album      `json:"album"`
	Media []models.MediaFile `json:"media"`
}

// ListAlbumMedia handles GET /api/v1/albums/{albumID}
func (h *MediaHandler) ListAlbumMedia(w http.ResponseWriter, r *http.Request) {
	albumID, err := pathID(r, "albumID")
	if err != nil {
		respondError(w, "Invalid album id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	album, media, err := h.media.ListAlbumMedia(r.Context(), sess, albumID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if media == nil {
		media = []models.MediaFile{}
	}
	respondJSON(w, http.StatusOK, AlbumMediaResponse{Album: album, Media: media})
}

// Delete handles DELETE /api/v1/media/{mediaID}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r, "mediaID")
	if err != nil {
		respondError(w, "Invalid media id", http.StatusBadRequest)
		return
	}

	sess := middleware.GetSession(r.Context())
	if err := h.media.Delete(r.Context(), sess, mediaID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("media_id", mediaID).Int64("user_id", sess.UserID).Msg("Media deleted")
	w.WriteHeader(http.StatusNoContent)
}
