package services

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserStore handles user and signup request rows
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetApprovedByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
	UpdatePushToken(ctx context.Context, userID int64, pushToken *string) error
	SignupRequestExists(ctx context.Context, username, email string) (bool, error)
	CreateSignupRequest(ctx context.Context, req *models.SignupRequest) error
	GetSignupRequest(ctx context.Context, id int64) (*models.SignupRequest, error)
	ListSignupRequests(ctx context.Context) ([]models.SignupRequest, error)
	DeleteSignupRequest(ctx context.Context, id int64) error
}

// AlbumIDLister lists album ids per owner, for account cleanup
type AlbumIDLister interface {
	ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

// UserService handles signup, login and account administration
type UserService struct {
	users  UserStore
	albums AlbumIDLister
	media  *MediaService
}

// NewUserService creates a new user service
func NewUserService(users UserStore, albums AlbumIDLister, media *MediaService) *UserService {
	return &UserService{users: users, albums: albums, media: media}
}

// SignUp files a signup request for admin review. The username and email
// must be free across both the users and signup_requests tables.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) error {
	pending, err := s.users.SignupRequestExists(ctx, username, email)
	if err != nil {
		return err
	}
	approved, err := s.users.UsernameOrEmailExists(ctx, username, email)
	if err != nil {
		return err
	}
	if pending || approved {
		return ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.CreateSignupRequest(ctx, &models.SignupRequest{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login authenticates an approved user by username and password
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetApprovedByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// ListSignupRequests returns all pending signup requests
func (s *UserService) ListSignupRequests(ctx context.Context) ([]models.SignupRequest, error) {
	return s.users.ListSignupRequests(ctx)
}

// ApproveSignup moves a signup request into the users table. The new
// account is approved with the default user role, and the request row is
// removed.
func (s *UserService) ApproveSignup(ctx context.Context, requestID int64) (*models.User, error) {
	req, err := s.users.GetSignupRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("signup request %d: %w", requestID, ErrNotFound)
		}
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Role:         models.RoleUser,
		Approved:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.users.DeleteSignupRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return user, nil
}

// RejectSignup discards a signup request
func (s *UserService) RejectSignup(ctx context.Context, requestID int64) error {
	return s.users.DeleteSignupRequest(ctx, requestID)
}

// ListUsers returns all accounts
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account and everything it owns. Blobs are purged
// album by album before the row delete cascades through albums, media,
// likes and notifications.
func (s *UserService) DeleteUser(ctx context.Context, sess *models.Session, targetID int64) error {
	if err := AuthorizeUserDelete(sess, targetID); err != nil {
		return err
	}

	albumIDs, err := s.albums.ListIDsByOwner(ctx, targetID)
	if err != nil {
		return err
	}
	for _, albumID := range albumIDs {
		if err := s.media.PurgeAlbumBlobs(ctx, albumID); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("user %d: %w", targetID, ErrNotFound)
		}
		return err
	}
	return nil
}

// UpdatePushToken registers or clears the user's mobile push token
func (s *UserService) UpdatePushToken(ctx context.Context, userID int64, pushToken *string) error {
	return s.users.UpdatePushToken(ctx, userID, pushToken)
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
