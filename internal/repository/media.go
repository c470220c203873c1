package repository

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRepository handles database operations for media files
type MediaRepository struct {
	db *pgxpool.Pool
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a media file row and fills in its id
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaFile) error {
	query := `
		INSERT INTO media_files (album_id, url, storage_key, type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		media.AlbumID, media.URL, media.StorageKey, media.Type, media.SizeBytes,
	).Scan(&media.ID, &media.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}
	return nil
}

// GetByID retrieves a media file by ID
func (r *MediaRepository) GetByID(ctx context.Context, id int64) (*models.MediaFile, error) {
	query := `
		SELECT id, album_id, url, storage_key, type, size_bytes, created_at
		FROM media_files
		WHERE id = $1
	`
	var media models.MediaFile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&media.ID, &media.AlbumID, &media.URL, &media.StorageKey,
		&media.Type, &media.SizeBytes, &media.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get media file: %w", err)
	}
	return &media, nil
}

// ListByAlbum retrieves all media in an album ordered by id
func (r *MediaRepository) ListByAlbum(ctx context.Context, albumID int64) ([]models.MediaFile, error) {
	query := `
		SELECT id, album_id, url, storage_key, type, size_bytes, created_at
		FROM media_files
		WHERE album_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}
	defer rows.Close()

	media := []models.MediaFile{}
	for rows.Next() {
		var m models.MediaFile
		err := rows.Scan(
			&m.ID, &m.AlbumID, &m.URL, &m.StorageKey,
			&m.Type, &m.SizeBytes, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media files: %w", err)
	}
	return media, nil
}

// Delete removes a media file row
func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// OwnerOf returns the id of the user owning the album the media belongs to
func (r *MediaRepository) OwnerOf(ctx context.Context, mediaID int64) (int64, error) {
	query := `
		SELECT a.user_id
		FROM media_files m
		JOIN albums a ON a.id = m.album_id
		WHERE m.id = $1
	`
	var ownerID int64
	err := r.db.QueryRow(ctx, query, mediaID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to resolve media owner: %w", err)
	}
	return ownerID, nil
}

// OwnerUsageBytes computes the cumulative media bytes stored across all
// albums owned by the user. Quota is charged to the album owner, not the
// uploader.
func (r *MediaRepository) OwnerUsageBytes(ctx context.Context, ownerID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(m.size_bytes), 0)
		FROM media_files m
		JOIN albums a ON a.id = m.album_id
		WHERE a.user_id = $1
	`
	var used int64
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to compute storage usage: %w", err)
	}
	return used, nil
}

// InsertLike records a like. Returns true when the row was actually
// inserted, false when the (media, user) pair already existed.
func (r *MediaRepository) InsertLike(ctx context.Context, mediaID, userID int64) (bool, error) {
	query := `INSERT INTO likes (media_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	result, err := r.db.Exec(ctx, query, mediaID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteLike removes a like. Deleting a like that does not exist is a
// no-op success.
func (r *MediaRepository) DeleteLike(ctx context.Context, mediaID, userID int64) error {
	query := `DELETE FROM likes WHERE media_id = $1 AND user_id = $2`
	if _, err := r.db.Exec(ctx, query, mediaID, userID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}
