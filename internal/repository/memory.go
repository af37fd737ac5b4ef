// Package repository provides persistence implementations for the
// account and media services: an in-memory store used by default and
// PostgreSQL-backed stores for durable deployments.
package repository

import (
	"context"
	"sync"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// MemoryStore keeps accounts and media records in process memory. It
// implements both service.AccountRepository and service.MediaRepository.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]models.Account            // by ID
	byEmail  map[string]string                    // email -> ID
	media    map[string]map[string][]models.MediaItem // userID -> kind -> newest first
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
		media:    make(map[string]map[string][]models.MediaItem),
	}
}

// CreateAccount stores a new account record.
func (s *MemoryStore) CreateAccount(_ context.Context, acc models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[acc.Email]; taken {
		return service.ErrEmailTaken
	}
	s.accounts[acc.ID] = acc
	s.byEmail[acc.Email] = acc.ID
	return nil
}

// AccountByEmail returns the account with the given email.
func (s *MemoryStore) AccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.Account{}, service.ErrNotFound
	}
	return s.accounts[id], nil
}

// AccountByID returns the account with the given ID.
func (s *MemoryStore) AccountByID(_ context.Context, id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, service.ErrNotFound
	}
	return acc, nil
}

// UpdateAccount replaces the stored record for acc.ID.
func (s *MemoryStore) UpdateAccount(_ context.Context, acc models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.accounts[acc.ID]
	if !ok {
		return service.ErrNotFound
	}
	if old.Email != acc.Email {
		delete(s.byEmail, old.Email)
		s.byEmail[acc.Email] = acc.ID
	}
	s.accounts[acc.ID] = acc
	return nil
}

// ListMedia returns the user's items of one kind, newest first.
func (s *MemoryStore) ListMedia(_ context.Context, userID, kind string) ([]models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.media[userID][kind]
	out := make([]models.MediaItem, len(items))
	copy(out, items)
	return out, nil
}

// AddMedia prepends a new item record so listings come back newest
// first.
func (s *MemoryStore) AddMedia(_ context.Context, userID, kind string, item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media[userID] == nil {
		s.media[userID] = make(map[string][]models.MediaItem)
	}
	s.media[userID][kind] = append([]models.MediaItem{item}, s.media[userID][kind]...)
	return nil
}

// GetMedia returns one item by ID.
func (s *MemoryStore) GetMedia(_ context.Context, userID, kind, id string) (models.MediaItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.media[userID][kind] {
		if item.ID == id {
			return item, nil
		}
	}
	return models.MediaItem{}, service.ErrItemNotFound
}

// DeleteMedia removes one item and returns its record.
func (s *MemoryStore) DeleteMedia(_ context.Context, userID, kind, id string) (models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.media[userID][kind]
	for i, item := range items {
		if item.ID == id {
			s.media[userID][kind] = append(items[:i], items[i+1:]...)
			return item, nil
		}
	}
	return models.MediaItem{}, service.ErrItemNotFound
}

// AllFilenames returns every stored filename across users and kinds.
func (s *MemoryStore) AllFilenames(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]bool)
	for _, kinds := range s.media {
		for _, items := range kinds {
			for _, item := range items {
				names[item.Filename] = true
			}
		}
	}
	for _, acc := range s.accounts {
		if acc.ProfilePicture != "" {
			names[acc.ProfilePicture] = true
		}
	}
	return names, nil
}
