package services

import (
	"crypto/subtle"

	"photoshare-backend/internal/models"
)

// AlbumAction is an operation on an album subject to access control
type AlbumAction string

const (
	// AlbumManage covers editing, deleting and uploading into an album.
	AlbumManage AlbumAction = "manage"
	// AlbumView covers listing an album's media.
	AlbumView AlbumAction = "view"
)

// AuthorizeAlbum decides whether the session may perform the action on
// the album.
//
// Manage is restricted to the owner and admins. View is open to any
// authenticated user unless the album carries a password, in which case
// the session must be the owner, an admin, or have unlocked this album
// earlier.
func AuthorizeAlbum(sess *models.Session, action AlbumAction, album *models.Album) error {
	if sess == nil {
		return ErrUnauthorized
	}

	isOwner := sess.UserID == album.OwnerID
	switch action {
	case AlbumManage:
		if sess.IsAdmin() || isOwner {
			return nil
		}
		return ErrForbidden
	case AlbumView:
		if !album.HasPassword() {
			return nil
		}
		if sess.IsAdmin() || isOwner || sess.HasUnlocked(album.ID) {
			return nil
		}
		return ErrPasswordRequired
	default:
		return ErrForbidden
	}
}

// UnlockAlbum checks a submitted password against the album and, on
// success, records the unlock in the session. The grant lives only in the
// session and disappears with it. An album without a password grants
// access to any submission.
func UnlockAlbum(sess *models.Session, album *models.Album, password string) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if !album.HasPassword() {
		sess.Unlock(album.ID)
		return nil
	}
	if password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(*album.Password)) != 1 {
		return ErrIncorrectPassword
	}
	sess.Unlock(album.ID)
	return nil
}

// AuthorizeUserDelete decides whether the session may delete the target
// user. Admins may delete anyone but themselves.
func AuthorizeUserDelete(sess *models.Session, targetID int64) error {
	if sess == nil {
		return ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if sess.UserID == targetID {
		return ErrSelfDelete
	}
	return nil
}
