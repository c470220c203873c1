package services

import (
	"context"
	"testing"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	nextUserID    int64
	nextRequestID int64
	users         map[int64]*models.User
	requests      map[int64]*models.SignupRequest
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:    make(map[int64]*models.User),
		requests: make(map[int64]*models.SignupRequest),
	}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	row := *user
	return &row, nil
}

func (f *fakeUserStore) GetApprovedByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username && user.Approved {
			row := *user
			return &row, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeUserStore) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.nextUserID++
	user.ID = f.nextUserID
	row := *user
	f.users[user.ID] = &row
	return nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for id := int64(1); id <= f.nextUserID; id++ {
		if user, ok := f.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) UpdatePushToken(ctx context.Context, userID int64, pushToken *string) error {
	if user, ok := f.users[userID]; ok {
		user.PushToken = pushToken
	}
	return nil
}

func (f *fakeUserStore) SignupRequestExists(ctx context.Context, username, email string) (bool, error) {
	for _, req := range f.requests {
		if req.Username == username || req.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) CreateSignupRequest(ctx context.Context, req *models.SignupRequest) error {
	f.nextRequestID++
	req.ID = f.nextRequestID
	row := *req
	f.requests[req.ID] = &row
	return nil
}

func (f *fakeUserStore) GetSignupRequest(ctx context.Context, id int64) (*models.SignupRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	row := *req
	return &row, nil
}

func (f *fakeUserStore) ListSignupRequests(ctx context.Context) ([]models.SignupRequest, error) {
	var out []models.SignupRequest
	for id := int64(1); id <= f.nextRequestID; id++ {
		if req, ok := f.requests[id]; ok {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeUserStore) DeleteSignupRequest(ctx context.Context, id int64) error {
	delete(f.requests, id)
	return nil
}

type fakeAlbumIDLister struct {
	byOwner map[int64][]int64
}

func (f *fakeAlbumIDLister) ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	return f.byOwner[ownerID], nil
}

func newUserFixture() (*UserService, *fakeUserStore) {
	users := newFakeUserStore()
	media := newFakeMediaStore()
	blobs := newFakeBlobStore()
	getter := &fakeAlbumGetter{albums: map[int64]*models.Album{}}
	mediaSvc := NewMediaService(media, getter, blobs, NewQuotaTracker(&fakeUsageStore{}, 0))
	return NewUserService(users, &fakeAlbumIDLister{byOwner: map[int64][]int64{}}, mediaSvc), users
}

func TestSignupAndApproval(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "alice", "alice@example.com", "hunter2"))

	// The account does not exist until an admin approves it.
	_, err := svc.Login(ctx, "alice", "hunter2")
	assert.ErrorIs(t, err, ErrUnauthorized)

	requests, err := svc.ListSignupRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	user, err := svc.ApproveSignup(ctx, requests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Approved)
	assert.Empty(t, store.requests)

	logged, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestSignupDuplicates(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "alice", "alice@example.com", "pw"))

	// A second request colliding on username or email is rejected while
	// the first is still pending.
	assert.ErrorIs(t, svc.SignUp(ctx, "alice", "other@example.com", "pw"), ErrDuplicateUser)
	assert.ErrorIs(t, svc.SignUp(ctx, "bob", "alice@example.com", "pw"), ErrDuplicateUser)

	requests, err := svc.ListSignupRequests(ctx)
	require.NoError(t, err)
	_, err = svc.ApproveSignup(ctx, requests[0].ID)
	require.NoError(t, err)

	// And still rejected once the account exists.
	assert.ErrorIs(t, svc.SignUp(ctx, "alice", "new@example.com", "pw"), ErrDuplicateUser)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, &models.User{
		Username: "bob", Email: "bob@example.com",
		PasswordHash: string(hash), Role: models.RoleUser, Approved: true,
	}))

	_, err = svc.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "right")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRejectSignup(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	require.NoError(t, svc.SignUp(ctx, "alice", "alice@example.com", "pw"))
	requests, err := svc.ListSignupRequests(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.RejectSignup(ctx, requests[0].ID))
	assert.Empty(t, store.requests)
	assert.Empty(t, store.users)

	// The name is free again after rejection.
	assert.NoError(t, svc.SignUp(ctx, "alice", "alice@example.com", "pw"))
}

func TestApproveMissingRequest(t *testing.T) {
	svc, _ := newUserFixture()
	_, err := svc.ApproveSignup(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.User{Username: "victim", Approved: true}))
	target := int64(1)

	assert.ErrorIs(t, svc.DeleteUser(ctx, userSession(2), target), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(ctx, adminSession(target), target), ErrSelfDelete)

	require.NoError(t, svc.DeleteUser(ctx, adminSession(99), target))
	assert.Empty(t, store.users)

	assert.ErrorIs(t, svc.DeleteUser(ctx, adminSession(99), target), ErrNotFound)
}

func TestUpdatePushToken(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.User{Username: "bob", Approved: true}))

	token := "device-token"
	require.NoError(t, svc.UpdatePushToken(ctx, 1, &token))
	assert.Equal(t, &token, store.users[1].PushToken)

	require.NoError(t, svc.UpdatePushToken(ctx, 1, nil))
	assert.Nil(t, store.users[1].PushToken)
}
