package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/galleryhub/galleryhub/internal/models"
)

func sample() models.Session {
	return models.Session{
		Token: "tok-1",
		ID:    "u1",
		Name:  "Alice",
		Email: "alice@example.com",
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if s.Get() != nil {
		t.Error("expected no session")
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
}

func TestStore_SetPersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	if err := s.Set(sample()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Token(); got != "tok-1" {
		t.Errorf("Token() = %q, want tok-1", got)
	}

	// A fresh store sees the same session after Load.
	s2 := NewStore(dir)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess := s2.Get()
	if sess == nil || sess.Name != "Alice" || sess.Token != "tok-1" {
		t.Errorf("loaded session = %+v", sess)
	}
}

func TestStore_SetFileMode(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Set(sample()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file mode = %o, want 0600", mode)
	}
}

func TestStore_Update(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Set(sample()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := s.Update(func(sess *models.Session) {
		sess.Name = "Alice Updated"
		sess.ProfilePicture = "avatar.jpeg"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	sess := s.Get()
	if sess.Name != "Alice Updated" || sess.ProfilePicture != "avatar.jpeg" {
		t.Errorf("session after update = %+v", sess)
	}
	if sess.Token != "tok-1" {
		t.Errorf("update must keep the token, got %q", sess.Token)
	}

	// The change reaches disk.
	s2 := NewStore(dir)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s2.Get().Name != "Alice Updated" {
		t.Errorf("persisted name = %q", s2.Get().Name)
	}
}

func TestStore_UpdateWithoutSession(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.Update(func(sess *models.Session) {
		t.Error("fn must not run without a session")
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Set(sample()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Get() != nil {
		t.Error("expected no session after Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Error("session file must be removed")
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Set(sample()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	sess := s.Get()
	sess.Name = "mutated"
	if s.Get().Name != "Alice" {
		t.Error("mutating the returned session must not affect the store")
	}
}
