package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Cascade foreign keys carry the
// delete-user and delete-album invariants at the database level.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(50) UNIQUE NOT NULL,
	email VARCHAR(100) UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	push_token TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS signup_requests (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(50) UNIQUE NOT NULL,
	email VARCHAR(100) UNIQUE NOT NULL,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS albums (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title VARCHAR(100) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	upload_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_public BOOLEAN NOT NULL DEFAULT FALSE,
	album_password TEXT
);
CREATE TABLE IF NOT EXISTS media_files (
	id BIGSERIAL PRIMARY KEY,
	album_id BIGINT NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
	url TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	type VARCHAR(20) NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS likes (
	media_id BIGINT NOT NULL REFERENCES media_files(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (media_id, user_id)
);
CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	read BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Migrate creates the tables if they do not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedAdmin creates the initial admin account when no user with that
// username exists yet
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, username, email, passwordHash string) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, approved)
		VALUES ($1, $2, $3, 'admin', TRUE)
		ON CONFLICT (username) DO NOTHING
	`
	if _, err := db.Exec(ctx, query, username, email, passwordHash); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
