package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

func setupMediaMock(t *testing.T) (*PostgresMediaRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresMediaRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

var mediaColumns = []string{"id", "original_name", "filename", "size", "upload_date", "doc_type"}

func TestListMedia(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(mediaColumns).
		AddRow("m2", "b.jpg", "s2.jpg", 200, "2026-02-01T00:00:00Z", "").
		AddRow("m1", "a.jpg", "s1.jpg", 100, "2026-01-01T00:00:00Z", "")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, original_name, filename, size, upload_date, doc_type
		   FROM media WHERE user_id = $1 AND kind = $2
		  ORDER BY upload_date DESC`)).
		WithArgs("u1", "image").
		WillReturnRows(rows)

	items, err := repo.ListMedia(context.Background(), "u1", "image")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "m2", items[0].ID)
	assert.Equal(t, int64(100), items[1].Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMedia(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	item := models.MediaItem{
		ID: "m1", OriginalName: "report.pdf", Filename: "s1.pdf",
		Size: 1234, UploadDate: "2026-01-01T00:00:00Z", Type: "pdf",
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO media (id, user_id, kind, original_name, filename, size, upload_date, doc_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)).
		WithArgs(item.ID, "u1", "document", item.OriginalName, item.Filename, item.Size, item.UploadDate, item.Type).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddMedia(context.Background(), "u1", "document", item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMedia_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, original_name, filename, size, upload_date, doc_type
		   FROM media WHERE id = $1 AND user_id = $2 AND kind = $3`)).
		WithArgs("ghost", "u1", "video").
		WillReturnRows(sqlmock.NewRows(mediaColumns))

	_, err := repo.GetMedia(context.Background(), "u1", "video", "ghost")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedia_ReturnsRemovedRecord(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM media WHERE id = $1 AND user_id = $2 AND kind = $3
		 RETURNING id, original_name, filename, size, upload_date, doc_type`)).
		WithArgs("m1", "u1", "image").
		WillReturnRows(sqlmock.NewRows(mediaColumns).
			AddRow("m1", "a.jpg", "s1.jpg", 100, "2026-01-01T00:00:00Z", ""))

	item, err := repo.DeleteMedia(context.Background(), "u1", "image", "m1")
	require.NoError(t, err)
	assert.Equal(t, "s1.jpg", item.Filename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedia_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM media WHERE id = $1 AND user_id = $2 AND kind = $3
		 RETURNING id, original_name, filename, size, upload_date, doc_type`)).
		WithArgs("ghost", "u1", "image").
		WillReturnRows(sqlmock.NewRows(mediaColumns))

	_, err := repo.DeleteMedia(context.Background(), "u1", "image", "ghost")
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestAllFilenames(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT filename FROM media
		  UNION
		 SELECT profile_picture FROM users WHERE profile_picture <> ''`)).
		WillReturnRows(sqlmock.NewRows([]string{"filename"}).
			AddRow("s1.jpg").
			AddRow("avatar.jpeg"))

	names, err := repo.AllFilenames(context.Background())
	require.NoError(t, err)
	assert.True(t, names["s1.jpg"])
	assert.True(t, names["avatar.jpeg"])
	assert.False(t, names["unknown.bin"])
}

func TestListMedia_QueryError(t *testing.T) {
	repo, mock, cleanup := setupMediaMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, original_name, filename, size, upload_date, doc_type`)).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListMedia(context.Background(), "u1", "image")
	assert.Error(t, err)
}
