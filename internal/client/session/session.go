// Package session persists the authenticated session as a single JSON
// blob on disk. All reads and writes go through the Store so persistence
// stays in one place.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/galleryhub/galleryhub/internal/models"
)

const fileName = "session.json"

// Store holds the current session record and mirrors every write to disk
// before it is observed by readers.
type Store struct {
	mu      sync.Mutex
	path    string
	current *models.Session
}

// NewStore creates a store backed by dir/session.json. An empty dir
// defaults to the current directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{path: filepath.Join(dir, fileName)}
}

// Load reads the persisted session, if any. A missing file leaves the
// store unauthenticated and is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.current = nil
			return nil
		}
		return err
	}
	defer f.Close()

	var sess models.Session
	if err := json.NewDecoder(f).Decode(&sess); err != nil {
		return err
	}
	s.current = &sess
	return nil
}

// Set replaces the session record, persisting it before returning.
func (s *Store) Set(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(sess); err != nil {
		return err
	}
	s.current = &sess
	return nil
}

// Update applies fn to a copy of the current session and persists the
// result. It is a no-op when no session is held.
func (s *Store) Update(fn func(*models.Session)) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil
	}
	sess := *s.current
	s.mu.Unlock()

	fn(&sess)
	return s.Set(sess)
}

// Clear removes the session record and its file. Used on logout and on
// session expiry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Get returns a copy of the current session, or nil when logged out.
func (s *Store) Get() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}
