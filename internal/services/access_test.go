package services

import (
	"testing"

	"photoshare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func userSession(userID int64) *models.Session {
	return &models.Session{ID: "sess", UserID: userID, Username: "user", Role: models.RoleUser}
}

func adminSession(userID int64) *models.Session {
	return &models.Session{ID: "sess", UserID: userID, Username: "admin", Role: models.RoleAdmin}
}

func TestAuthorizeAlbumManage(t *testing.T) {
	album := &models.Album{ID: 1, OwnerID: 10}

	assert.NoError(t, AuthorizeAlbum(userSession(10), AlbumManage, album))
	assert.NoError(t, AuthorizeAlbum(adminSession(99), AlbumManage, album))
	assert.ErrorIs(t, AuthorizeAlbum(userSession(20), AlbumManage, album), ErrForbidden)
	assert.ErrorIs(t, AuthorizeAlbum(nil, AlbumManage, album), ErrUnauthorized)
}

func TestAuthorizeAlbumView(t *testing.T) {
	open := &models.Album{ID: 1, OwnerID: 10}
	locked := &models.Album{ID: 2, OwnerID: 10, Password: strPtr("secret")}

	// Any authenticated user may view an album without a password.
	assert.NoError(t, AuthorizeAlbum(userSession(20), AlbumView, open))

	// A password gates everyone except the owner, admins and sessions
	// holding an earlier unlock.
	assert.ErrorIs(t, AuthorizeAlbum(userSession(20), AlbumView, locked), ErrPasswordRequired)
	assert.NoError(t, AuthorizeAlbum(userSession(10), AlbumView, locked))
	assert.NoError(t, AuthorizeAlbum(adminSession(99), AlbumView, locked))

	unlocked := userSession(20)
	unlocked.Unlock(locked.ID)
	assert.NoError(t, AuthorizeAlbum(unlocked, AlbumView, locked))

	assert.ErrorIs(t, AuthorizeAlbum(nil, AlbumView, open), ErrUnauthorized)
}

func TestAuthorizeAlbumEmptyPasswordIsOpen(t *testing.T) {
	album := &models.Album{ID: 3, OwnerID: 10, Password: strPtr("")}
	assert.NoError(t, AuthorizeAlbum(userSession(20), AlbumView, album))
}

func TestUnlockAlbum(t *testing.T) {
	locked := &models.Album{ID: 2, OwnerID: 10, Password: strPtr("secret")}

	sess := userSession(20)
	require.ErrorIs(t, UnlockAlbum(sess, locked, "wrong"), ErrIncorrectPassword)
	require.ErrorIs(t, UnlockAlbum(sess, locked, ""), ErrIncorrectPassword)
	assert.False(t, sess.HasUnlocked(locked.ID))

	require.NoError(t, UnlockAlbum(sess, locked, "secret"))
	assert.True(t, sess.HasUnlocked(locked.ID))

	// The grant turns a password failure into a view grant.
	assert.NoError(t, AuthorizeAlbum(sess, AlbumView, locked))
}

func TestUnlockAlbumWithoutPassword(t *testing.T) {
	open := &models.Album{ID: 1, OwnerID: 10}
	sess := userSession(20)

	require.NoError(t, UnlockAlbum(sess, open, "anything"))
	require.NoError(t, UnlockAlbum(sess, open, ""))
}

func TestUnlockAlbumUnauthenticated(t *testing.T) {
	open := &models.Album{ID: 1, OwnerID: 10}
	assert.ErrorIs(t, UnlockAlbum(nil, open, "x"), ErrUnauthorized)
}

func TestAuthorizeUserDelete(t *testing.T) {
	assert.ErrorIs(t, AuthorizeUserDelete(nil, 5), ErrUnauthorized)
	assert.ErrorIs(t, AuthorizeUserDelete(userSession(1), 5), ErrForbidden)
	assert.ErrorIs(t, AuthorizeUserDelete(adminSession(1), 1), ErrSelfDelete)
	assert.NoError(t, AuthorizeUserDelete(adminSession(1), 5))
}

func TestSessionUnlockIsIdempotent(t *testing.T) {
	sess := userSession(20)
	sess.Unlock(7)
	sess.Unlock(7)
	assert.Equal(t, []int64{7}, sess.UnlockedAlbumIDs)
}
