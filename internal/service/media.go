package service

import (
	"context"
	"errors"

	"github.com/galleryhub/galleryhub/internal/models"
)

// ErrItemNotFound means no media item matched the ID for that user.
var ErrItemNotFound = errors.New("item not found")

// MediaRepository defines the persistence operations required by the
// media service. Items are scoped to a user and a kind.
type MediaRepository interface {
	// ListMedia returns the user's items of one kind, newest first.
	ListMedia(ctx context.Context, userID, kind string) ([]models.MediaItem, error)
	// AddMedia stores a new item record.
	AddMedia(ctx context.Context, userID, kind string, item models.MediaItem) error
	// GetMedia returns one item, or ErrItemNotFound.
	GetMedia(ctx context.Context, userID, kind, id string) (models.MediaItem, error)
	// DeleteMedia removes one item, returning the removed record so the
	// caller can clean up its file. Returns ErrItemNotFound when absent.
	DeleteMedia(ctx context.Context, userID, kind, id string) (models.MediaItem, error)
	// AllFilenames returns every stored filename across users and kinds.
	AllFilenames(ctx context.Context) (map[string]bool, error)
}

// MediaService implements list/add/delete over a MediaRepository.
type MediaService struct {
	repo MediaRepository
}

// NewMediaService constructs a MediaService using the provided
// repository.
func NewMediaService(repo MediaRepository) *MediaService {
	return &MediaService{repo: repo}
}

// List returns the user's collection for one kind, newest first.
func (s *MediaService) List(ctx context.Context, userID, kind string) ([]models.MediaItem, error) {
	return s.repo.ListMedia(ctx, userID, kind)
}

// Add stores one item record.
func (s *MediaService) Add(ctx context.Context, userID, kind string, item models.MediaItem) error {
	return s.repo.AddMedia(ctx, userID, kind, item)
}

// Get returns one item by ID.
func (s *MediaService) Get(ctx context.Context, userID, kind, id string) (models.MediaItem, error) {
	return s.repo.GetMedia(ctx, userID, kind, id)
}

// Delete removes one item and returns its record.
func (s *MediaService) Delete(ctx context.Context, userID, kind, id string) (models.MediaItem, error) {
	return s.repo.DeleteMedia(ctx, userID, kind, id)
}

// Filenames returns every stored filename, for the orphan-file cleaner.
func (s *MediaService) Filenames(ctx context.Context) (map[string]bool, error) {
	return s.repo.AllFilenames(ctx)
}
