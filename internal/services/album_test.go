package services

import (
	"context"
	"testing"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlbumStore struct {
	nextID int64
	albums map[int64]*models.Album

	ownQueries     []string
	visibleQueries []string
}

func newFakeAlbumStore() *fakeAlbumStore {
	return &fakeAlbumStore{albums: make(map[int64]*models.Album)}
}

func (f *fakeAlbumStore) Create(ctx context.Context, album *models.Album) error {
	f.nextID++
	album.ID = f.nextID
	row := *album
	f.albums[album.ID] = &row
	return nil
}

func (f *fakeAlbumStore) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	album, ok := f.albums[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	row := *album
	return &row, nil
}

func (f *fakeAlbumStore) Update(ctx context.Context, album *models.Album) error {
	row := *album
	f.albums[album.ID] = &row
	return nil
}

func (f *fakeAlbumStore) Delete(ctx context.Context, id int64) error {
	delete(f.albums, id)
	return nil
}

func (f *fakeAlbumStore) SearchOwn(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error) {
	f.ownQueries = append(f.ownQueries, query)
	return nil, nil
}

func (f *fakeAlbumStore) SearchVisible(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error) {
	f.visibleQueries = append(f.visibleQueries, query)
	return nil, nil
}

func newAlbumFixture() (*AlbumService, *fakeAlbumStore, *fakeBlobStore) {
	albums := newFakeAlbumStore()
	media := newFakeMediaStore()
	blobs := newFakeBlobStore()
	mediaSvc := NewMediaService(media, albums, blobs, NewQuotaTracker(&fakeUsageStore{}, 0))
	return NewAlbumService(albums, mediaSvc), albums, blobs
}

func TestCreateAlbumVisibility(t *testing.T) {
	svc, _, _ := newAlbumFixture()

	// A regular user cannot publish at creation; the flag is dropped.
	album, err := svc.Create(context.Background(), userSession(10), "Trip", "", true)
	require.NoError(t, err)
	assert.False(t, album.IsPublic)
	assert.Equal(t, int64(10), album.OwnerID)

	admin, err := svc.Create(context.Background(), adminSession(1), "Featured", "", true)
	require.NoError(t, err)
	assert.True(t, admin.IsPublic)

	_, err = svc.Create(context.Background(), nil, "x", "", false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateAlbum(t *testing.T) {
	svc, store, _ := newAlbumFixture()
	album, err := svc.Create(context.Background(), userSession(10), "Trip", "old", false)
	require.NoError(t, err)

	title := "Trip 2026"
	updated, err := svc.Update(context.Background(), userSession(10), album.ID, AlbumUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Trip 2026", updated.Title)
	assert.Equal(t, "old", updated.Description)

	_, err = svc.Update(context.Background(), userSession(20), album.ID, AlbumUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(context.Background(), userSession(10), 404, AlbumUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "Trip 2026", store.albums[album.ID].Title)
}

func TestUpdateAlbumPassword(t *testing.T) {
	svc, _, _ := newAlbumFixture()
	album, err := svc.Create(context.Background(), userSession(10), "Trip", "", false)
	require.NoError(t, err)

	secret := "secret"
	updated, err := svc.Update(context.Background(), userSession(10), album.ID, AlbumUpdate{Password: &secret})
	require.NoError(t, err)
	assert.True(t, updated.HasPassword())

	// The empty string clears the password instead of setting it.
	empty := ""
	updated, err = svc.Update(context.Background(), userSession(10), album.ID, AlbumUpdate{Password: &empty})
	require.NoError(t, err)
	assert.False(t, updated.HasPassword())
}

func TestUpdateAlbumVisibilityIsAdminOnly(t *testing.T) {
	svc, _, _ := newAlbumFixture()
	album, err := svc.Create(context.Background(), userSession(10), "Trip", "", false)
	require.NoError(t, err)

	public := true
	_, err = svc.Update(context.Background(), userSession(10), album.ID, AlbumUpdate{IsPublic: &public})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), adminSession(1), album.ID, AlbumUpdate{IsPublic: &public})
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
}

func TestDeleteAlbumPurgesBlobs(t *testing.T) {
	svc, store, blobs := newAlbumFixture()
	sess := userSession(10)
	album, err := svc.Create(context.Background(), sess, "Trip", "", false)
	require.NoError(t, err)

	_, err = svc.media.Upload(context.Background(), sess, album.ID, "a.jpg", "image/jpeg", []byte("x"))
	require.NoError(t, err)
	require.Len(t, blobs.blobs, 1)

	require.NoError(t, svc.Delete(context.Background(), sess, album.ID))
	assert.Empty(t, blobs.blobs)
	assert.NotContains(t, store.albums, album.ID)

	assert.ErrorIs(t, svc.Delete(context.Background(), sess, album.ID), ErrNotFound)
}

func TestSearchScopes(t *testing.T) {
	svc, store, _ := newAlbumFixture()
	sess := userSession(10)

	_, err := svc.Search(context.Background(), sess, ScopeMine, "trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"trip"}, store.ownQueries)

	_, err = svc.Search(context.Background(), sess, ScopeAll, "trip")
	require.NoError(t, err)

	// Unknown scopes fall through to the visibility-filtered search.
	_, err = svc.Search(context.Background(), sess, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"trip", ""}, store.visibleQueries)

	_, err = svc.Search(context.Background(), nil, ScopeAll, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestServiceUnlock(t *testing.T) {
	svc, store, _ := newAlbumFixture()
	sess := userSession(10)
	album, err := svc.Create(context.Background(), sess, "Trip", "", false)
	require.NoError(t, err)

	secret := "secret"
	store.albums[album.ID].Password = &secret

	viewer := userSession(20)
	assert.ErrorIs(t, svc.Unlock(context.Background(), viewer, album.ID, "nope"), ErrIncorrectPassword)
	require.NoError(t, svc.Unlock(context.Background(), viewer, album.ID, "secret"))
	assert.True(t, viewer.HasUnlocked(album.ID))

	assert.ErrorIs(t, svc.Unlock(context.Background(), viewer, 404, "x"), ErrNotFound)
}
