package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BlobStore persists media payloads and exposes them as public URLs
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MediaStore handles media file rows
type MediaStore interface {
	Create(ctx context.Context, media *models.MediaFile) error
	GetByID(ctx context.Context, id int64) (*models.MediaFile, error)
	ListByAlbum(ctx context.Context, albumID int64) ([]models.MediaFile, error)
	Delete(ctx context.Context, id int64) error
}

// AlbumGetter resolves album ids
type AlbumGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Album, error)
}

// MediaService handles the upload pipeline and media deletion
type MediaService struct {
	media  MediaStore
	albums AlbumGetter
	blobs  BlobStore
	quota  *QuotaTracker
}

// NewMediaService creates a new media service
func NewMediaService(media MediaStore, albums AlbumGetter, blobs BlobStore, quota *QuotaTracker) *MediaService {
	return &MediaService{
		media:  media,
		albums: albums,
		blobs:  blobs,
		quota:  quota,
	}
}

// QuotaLimit returns the per-owner storage cap in bytes.
func (s *MediaService) QuotaLimit() int64 {
	return s.quota.Limit()
}

// Upload classifies the file, checks the owner's quota, writes the blob
// and records the media row. The quota check runs before the blob write,
// so a rejected upload never leaves bytes behind; if the row insert fails
// after the write, the blob is removed again.
func (s *MediaService) Upload(ctx context.Context, sess *models.Session, albumID int64, filename, contentType string, data []byte) (*models.MediaFile, error) {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("album %d: %w", albumID, ErrNotFound)
		}
		return nil, err
	}

	if err := AuthorizeAlbum(sess, AlbumManage, album); err != nil {
		return nil, err
	}

	if err := s.quota.Admit(ctx, album.OwnerID, int64(len(data))); err != nil {
		return nil, err
	}

	mediaType := models.MediaTypeVideo
	if strings.HasPrefix(contentType, "image/") {
		mediaType = models.MediaTypeImage
	}

	key := storageKey(filename)
	url, err := s.blobs.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	media := &models.MediaFile{
		AlbumID:    album.ID,
		URL:        url,
		StorageKey: key,
		Type:       mediaType,
		SizeBytes:  int64(len(data)),
	}
	if err := s.media.Create(ctx, media); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove blob after insert failure")
		}
		return nil, err
	}

	return media, nil
}

// ListAlbumMedia returns the album and its media, enforcing the
// password gate
func (s *MediaService) ListAlbumMedia(ctx context.Context, sess *models.Session, albumID int64) (*models.Album, []models.MediaFile, error) {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, nil, fmt.Errorf("album %d: %w", albumID, ErrNotFound)
		}
		return nil, nil, err
	}

	if err := AuthorizeAlbum(sess, AlbumView, album); err != nil {
		return nil, nil, err
	}

	media, err := s.media.ListByAlbum(ctx, albumID)
	if err != nil {
		return nil, nil, err
	}
	return album, media, nil
}

// Delete removes a single media item: blob first, then the row. A blob
// that is already gone is not an error.
func (s *MediaService) Delete(ctx context.Context, sess *models.Session, mediaID int64) error {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("media %d: %w", mediaID, ErrNotFound)
		}
		return err
	}

	album, err := s.albums.GetByID(ctx, media.AlbumID)
	if err != nil {
		return err
	}
	if err := AuthorizeAlbum(sess, AlbumManage, album); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, media.StorageKey); err != nil {
		log.Warn().Err(err).Str("key", media.StorageKey).Msg("Failed to delete blob")
	}
	return s.media.Delete(ctx, mediaID)
}

// PurgeAlbumBlobs removes the blobs of every media item in the album.
// Rows are left to the caller (usually a cascade delete).
func (s *MediaService) PurgeAlbumBlobs(ctx context.Context, albumID int64) error {
	media, err := s.media.ListByAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	for _, m := range media {
		if err := s.blobs.Delete(ctx, m.StorageKey); err != nil {
			log.Warn().Err(err).Str("key", m.StorageKey).Msg("Failed to delete blob")
		}
	}
	return nil
}

// storageKey builds a collision-resistant blob key from the upload time,
// a random suffix and the sanitized original filename.
func storageKey(filename string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], sanitizeFilename(filename))
}

// sanitizeFilename strips every character outside [A-Za-z0-9._-].
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
