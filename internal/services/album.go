package services

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"
)

// Search scopes.
const (
	ScopeMine = "mine"
	ScopeAll  = "all"
)

// AlbumStore handles album rows
type AlbumStore interface {
	Create(ctx context.Context, album *models.Album) error
	GetByID(ctx context.Context, id int64) (*models.Album, error)
	Update(ctx context.Context, album *models.Album) error
	Delete(ctx context.Context, id int64) error
	SearchOwn(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error)
	SearchVisible(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error)
}

// AlbumService handles album lifecycle and search
type AlbumService struct {
	albums AlbumStore
	media  *MediaService
}

// NewAlbumService creates a new album service
func NewAlbumService(albums AlbumStore, media *MediaService) *AlbumService {
	return &AlbumService{albums: albums, media: media}
}

// Create creates an album owned by the session user. Only admins may
// publish an album at creation; for everyone else is_public is forced to
// false.
func (s *AlbumService) Create(ctx context.Context, sess *models.Session, title, description string, isPublic bool) (*models.Album, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	album := &models.Album{
		OwnerID:     sess.UserID,
		Title:       title,
		Description: description,
		IsPublic:    isPublic && sess.IsAdmin(),
	}
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// AlbumUpdate is a partial album update. Nil fields are left unchanged.
// Password set to the empty string removes the album password.
type AlbumUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Password    *string `json:"album_password"`
	IsPublic    *bool   `json:"is_public"`
}

// Update applies a partial update. Title, description and password are
// owner-or-admin mutable; the visibility flag is admin-only.
func (s *AlbumService) Update(ctx context.Context, sess *models.Session, albumID int64, update AlbumUpdate) (*models.Album, error) {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeAlbum(sess, AlbumManage, album); err != nil {
		return nil, err
	}

	if update.Title != nil {
		album.Title = *update.Title
	}
	if update.Description != nil {
		album.Description = *update.Description
	}
	if update.Password != nil {
		if *update.Password == "" {
			album.Password = nil
		} else {
			album.Password = update.Password
		}
	}
	if update.IsPublic != nil {
		if !sess.IsAdmin() {
			return nil, ErrForbidden
		}
		album.IsPublic = *update.IsPublic
	}

	if err := s.albums.Update(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// Delete removes an album, its media rows and their blobs
func (s *AlbumService) Delete(ctx context.Context, sess *models.Session, albumID int64) error {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if err := AuthorizeAlbum(sess, AlbumManage, album); err != nil {
		return err
	}

	if err := s.media.PurgeAlbumBlobs(ctx, albumID); err != nil {
		return err
	}
	return s.albums.Delete(ctx, albumID)
}

// Search lists albums for the viewer. Scope "mine" is the viewer's own
// albums regardless of visibility; anything else is the visibility-
// filtered view over all albums. An empty query matches everything.
func (s *AlbumService) Search(ctx context.Context, sess *models.Session, scope, query string) ([]models.AlbumSummary, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if scope == ScopeMine {
		return s.albums.SearchOwn(ctx, sess.UserID, query)
	}
	return s.albums.SearchVisible(ctx, sess.UserID, query)
}

func (s *AlbumService) getAlbum(ctx context.Context, albumID int64) (*models.Album, error) {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("album %d: %w", albumID, ErrNotFound)
		}
		return nil, err
	}
	return album, nil
}

// Unlock verifies a submitted album password and stores the grant in the
// session on success.
func (s *AlbumService) Unlock(ctx context.Context, sess *models.Session, albumID int64, password string) error {
	album, err := s.getAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	return UnlockAlbum(sess, album, password)
}
