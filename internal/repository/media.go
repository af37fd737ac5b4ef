package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// PostgresMediaRepository implements media persistence using a
// PostgreSQL database. Only metadata lives in the database; file bytes
// stay on disk under the uploads directory.
type PostgresMediaRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMediaRepository creates a new PostgresMediaRepository with
// the given database connection.
func NewPostgresMediaRepository(db *sql.DB) *PostgresMediaRepository {
	return &PostgresMediaRepository{DB: db}
}

// ListMedia returns the user's items of one kind, newest first.
func (r *PostgresMediaRepository) ListMedia(ctx context.Context, userID, kind string) ([]models.MediaItem, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, original_name, filename, size, upload_date, doc_type
		   FROM media WHERE user_id = $1 AND kind = $2
		  ORDER BY upload_date DESC`,
		userID, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		var item models.MediaItem
		if err := rows.Scan(&item.ID, &item.OriginalName, &item.Filename, &item.Size, &item.UploadDate, &item.Type); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddMedia inserts a new media row.
func (r *PostgresMediaRepository) AddMedia(ctx context.Context, userID, kind string, item models.MediaItem) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO media (id, user_id, kind, original_name, filename, size, upload_date, doc_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, userID, kind, item.OriginalName, item.Filename, item.Size, item.UploadDate, item.Type,
	)
	return err
}

// GetMedia returns one item, or service.ErrItemNotFound.
func (r *PostgresMediaRepository) GetMedia(ctx context.Context, userID, kind, id string) (models.MediaItem, error) {
	var item models.MediaItem
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, original_name, filename, size, upload_date, doc_type
		   FROM media WHERE id = $1 AND user_id = $2 AND kind = $3`,
		id, userID, kind,
	).Scan(&item.ID, &item.OriginalName, &item.Filename, &item.Size, &item.UploadDate, &item.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MediaItem{}, service.ErrItemNotFound
	}
	if err != nil {
		return models.MediaItem{}, err
	}
	return item, nil
}

// DeleteMedia removes one item, returning the removed record.
func (r *PostgresMediaRepository) DeleteMedia(ctx context.Context, userID, kind, id string) (models.MediaItem, error) {
	var item models.MediaItem
	err := r.DB.QueryRowContext(
		ctx,
		`DELETE FROM media WHERE id = $1 AND user_id = $2 AND kind = $3
		 RETURNING id, original_name, filename, size, upload_date, doc_type`,
		id, userID, kind,
	).Scan(&item.ID, &item.OriginalName, &item.Filename, &item.Size, &item.UploadDate, &item.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MediaItem{}, service.ErrItemNotFound
	}
	if err != nil {
		return models.MediaItem{}, err
	}
	return item, nil
}

// AllFilenames returns every stored filename, media and avatars alike.
func (r *PostgresMediaRepository) AllFilenames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT filename FROM media
		  UNION
		 SELECT profile_picture FROM users WHERE profile_picture <> ''`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = true
	}
	return names, rows.Err()
}
