package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"photoshare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (a *testApp) upload(t *testing.T, albumID string, filename string, data []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartFile(t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/albums/"+albumID+"/media", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadAdmitsFilesUpToQuota(t *testing.T) {
	app := newTestAppWithQuota(t, 4<<20)
	ownerID := seedUser(t, app, "owner", "pw", models.RoleUser)
	require.NoError(t, app.albums.Create(context.Background(), &models.Album{
		OwnerID: ownerID, Title: "Trip",
	}))
	cookie := app.login(t, "owner", "pw")

	// A multi-megabyte file within the quota goes through; the request
	// body cap must not refuse what the quota admits.
	rec := app.upload(t, "1", "big.jpg", make([]byte, 2<<20), cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2<<20), body["size_bytes"])
}

func TestUploadOverQuotaIsQuotaExceeded(t *testing.T) {
	app := newTestAppWithQuota(t, 4<<20)
	ownerID := seedUser(t, app, "owner", "pw", models.RoleUser)
	require.NoError(t, app.albums.Create(context.Background(), &models.Album{
		OwnerID: ownerID, Title: "Trip",
	}))
	cookie := app.login(t, "owner", "pw")

	// Past the quota but within the body cap: rejected by the tracker.
	rec := app.upload(t, "1", "big.jpg", make([]byte, 9<<19), cookie)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Storage quota exceeded", decodeBody(t, rec)["error"])

	// Far past the quota, beyond the body cap: the reader cuts it off,
	// with the same quota taxonomy rather than a bad-request error.
	rec = app.upload(t, "1", "huge.jpg", make([]byte, 6<<20), cookie)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Storage quota exceeded", decodeBody(t, rec)["error"])
}

func TestUploadMissingFilePart(t *testing.T) {
	app := newTestAppWithQuota(t, 4<<20)
	ownerID := seedUser(t, app, "owner", "pw", models.RoleUser)
	require.NoError(t, app.albums.Create(context.Background(), &models.Album{
		OwnerID: ownerID, Title: "Trip",
	}))
	cookie := app.login(t, "owner", "pw")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/albums/1/media", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", decodeBody(t, rec)["error"])
}
