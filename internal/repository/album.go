package repository

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles database operations for albums
type AlbumRepository struct {
	db *pgxpool.Pool
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create creates a new album and fills in its id and upload date
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	query := `
		INSERT INTO albums (user_id, title, description, is_public, album_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, upload_date
	`
	err := r.db.QueryRow(ctx, query,
		album.OwnerID, album.Title, album.Description, album.IsPublic, album.Password,
	).Scan(&album.ID, &album.UploadDate)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

// GetByID retrieves an album by ID
func (r *AlbumRepository) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	query := `
		SELECT id, user_id, title, description, upload_date, is_public, album_password
		FROM albums
		WHERE id = $1
	`
	var album models.Album
	err := r.db.QueryRow(ctx, query, id).Scan(
		&album.ID, &album.OwnerID, &album.Title, &album.Description,
		&album.UploadDate, &album.IsPublic, &album.Password,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return &album, nil
}

// Update persists title, description, visibility and password changes
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	query := `
		UPDATE albums
		SET title = $1, description = $2, is_public = $3, album_password = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(ctx, query,
		album.Title, album.Description, album.IsPublic, album.Password, album.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an album. Media rows go with it through the cascade
// foreign key; blobs must be removed by the caller first.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListIDsByOwner returns the ids of all albums owned by a user
func (r *AlbumRepository) ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM albums WHERE user_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums by owner: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan album id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album ids: %w", err)
	}
	return ids, nil
}

const summaryColumns = `
	a.id, a.user_id, a.title, a.description, a.upload_date, a.is_public,
	c.cover_url, c.cover_type,
	COALESCE((SELECT COUNT(*)::int FROM media_files mf WHERE mf.album_id = a.id), 0) AS media_count
`

// The cover is the lowest-id media item in the album.
const coverJoin = `
	LEFT JOIN LATERAL (
		SELECT url AS cover_url, type AS cover_type
		FROM media_files m
		WHERE m.album_id = a.id
		ORDER BY m.id ASC
		LIMIT 1
	) c ON true
`

// SearchOwn lists the viewer's albums matching the query, regardless of
// visibility. An empty query matches everything.
func (r *AlbumRepository) SearchOwn(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error) {
	sql := `SELECT ` + summaryColumns + ` FROM albums a ` + coverJoin + `
		WHERE a.user_id = $1
		  AND ($2 = '' OR a.title ILIKE $3 OR a.description ILIKE $3)
		ORDER BY a.upload_date DESC, a.id ASC`
	return r.querySummaries(ctx, sql, viewerID, query, "%"+query+"%")
}

// SearchVisible lists albums matching the query that the viewer may see:
// public albums plus the viewer's own private ones.
func (r *AlbumRepository) SearchVisible(ctx context.Context, viewerID int64, query string) ([]models.AlbumSummary, error) {
	sql := `SELECT ` + summaryColumns + ` FROM albums a ` + coverJoin + `
		WHERE (a.is_public OR a.user_id = $1)
		  AND ($2 = '' OR a.title ILIKE $3 OR a.description ILIKE $3)
		ORDER BY a.upload_date DESC, a.id ASC`
	return r.querySummaries(ctx, sql, viewerID, query, "%"+query+"%")
}

func (r *AlbumRepository) querySummaries(ctx context.Context, sql string, args ...interface{}) ([]models.AlbumSummary, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}
	defer rows.Close()

	summaries := []models.AlbumSummary{}
	for rows.Next() {
		var s models.AlbumSummary
		err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.UploadDate,
			&s.IsPublic, &s.CoverURL, &s.CoverType, &s.MediaCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album summaries: %w", err)
	}
	return summaries, nil
}
