package repository

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows is returned when a lookup matches nothing.
var ErrNoRows = pgx.ErrNoRows

// UserRepository handles database operations for users and signup requests
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, approved, push_token, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.Approved, &user.PushToken, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetApprovedByUsername retrieves an approved user by username, for login
func (r *UserRepository) GetApprovedByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND approved = TRUE`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// UsernameOrEmailExists checks the users table for a duplicate
func (r *UserRepository) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// Create inserts an approved user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Approved,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// List retrieves all users ordered by id
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Delete removes a user. Albums, media rows, likes and notifications go
// with it through cascade foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID int64, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, query, pushToken, userID); err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// SignupRequestExists checks the signup_requests table for a duplicate
func (r *UserRepository) SignupRequestExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM signup_requests WHERE username = $1 OR email = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check signup request existence: %w", err)
	}
	return exists, nil
}

// CreateSignupRequest inserts a pending signup request
func (r *UserRepository) CreateSignupRequest(ctx context.Context, req *models.SignupRequest) error {
	query := `
		INSERT INTO signup_requests (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, req.Username, req.Email, req.PasswordHash).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to create signup request: %w", err)
	}
	return nil
}

// GetSignupRequest retrieves a signup request by id
func (r *UserRepository) GetSignupRequest(ctx context.Context, id int64) (*models.SignupRequest, error) {
	query := `SELECT id, username, email, password_hash FROM signup_requests WHERE id = $1`
	var req models.SignupRequest
	err := r.db.QueryRow(ctx, query, id).Scan(&req.ID, &req.Username, &req.Email, &req.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get signup request: %w", err)
	}
	return &req, nil
}

// ListSignupRequests retrieves all pending signup requests
func (r *UserRepository) ListSignupRequests(ctx context.Context) ([]models.SignupRequest, error) {
	query := `SELECT id, username, email, password_hash FROM signup_requests ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list signup requests: %w", err)
	}
	defer rows.Close()

	var requests []models.SignupRequest
	for rows.Next() {
		var req models.SignupRequest
		if err := rows.Scan(&req.ID, &req.Username, &req.Email, &req.PasswordHash); err != nil {
			return nil, fmt.Errorf("failed to scan signup request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signup requests: %w", err)
	}
	return requests, nil
}

// DeleteSignupRequest removes a signup request
func (r *UserRepository) DeleteSignupRequest(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM signup_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete signup request: %w", err)
	}
	return nil
}
