package collection

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/models"
)

// fakeMediaAPI implements MediaAPI for testing.
type fakeMediaAPI struct {
	mu        sync.Mutex
	items     []models.MediaItem
	listErr   error
	deleteErr map[string]error
	deleted   []string
	zipErr    error
	zipBytes  []byte
}

func (f *fakeMediaAPI) ListMedia(ctx context.Context, kind models.Kind) ([]models.MediaItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeMediaAPI) DeleteMedia(ctx context.Context, kind models.Kind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErr[id]; ok {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMediaAPI) DownloadZip(ctx context.Context, kind models.Kind, ids []string, w io.Writer) (int64, error) {
	if f.zipErr != nil {
		return 0, f.zipErr
	}
	n, err := w.Write(f.zipBytes)
	return int64(n), err
}

func item(id string) models.MediaItem {
	return models.MediaItem{ID: id, OriginalName: id + ".jpg", Filename: id + "-stored.jpg"}
}

func TestController_Load(t *testing.T) {
	tests := []struct {
		name        string
		api         *fakeMediaAPI
		wantErr     error
		wantLen     int
		wantPageErr string
	}{
		{
			name:    "success",
			api:     &fakeMediaAPI{items: []models.MediaItem{item("a"), item("b")}},
			wantLen: 2,
		},
		{
			name:        "session expired empties the list",
			api:         &fakeMediaAPI{listErr: api.ErrSessionExpired},
			wantErr:     api.ErrSessionExpired,
			wantPageErr: "Session expired. Please login again.",
		},
		{
			name:        "server error kept as page error",
			api:         &fakeMediaAPI{listErr: errors.New("boom")},
			wantErr:     errors.New("boom"),
			wantPageErr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(models.Images, tt.api)
			// Pre-seed stale state so failures visibly empty it.
			c.items = []models.MediaItem{item("stale")}

			err := c.Load(context.Background())
			if (err == nil) != (tt.wantErr == nil) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == api.ErrSessionExpired && !errors.Is(err, api.ErrSessionExpired) {
				t.Fatalf("expected ErrSessionExpired, got %v", err)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
			if c.Err() != tt.wantPageErr {
				t.Errorf("Err() = %q, want %q", c.Err(), tt.wantPageErr)
			}
		})
	}
}

func TestController_LoadClearsPreviousError(t *testing.T) {
	f := &fakeMediaAPI{listErr: errors.New("boom")}
	c := New(models.Videos, f)

	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected error from first load")
	}
	f.listErr = nil
	f.items = []models.MediaItem{item("v1")}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Err() != "" {
		t.Errorf("Err() = %q, want empty after successful refresh", c.Err())
	}
}

func TestController_ApplyUploadPrepends(t *testing.T) {
	c := New(models.Images, &fakeMediaAPI{})
	c.items = []models.MediaItem{item("old")}

	c.ApplyUpload(item("new1"), item("new2"))

	got := make([]string, 0, c.Len())
	for _, it := range c.Items() {
		got = append(got, it.ID)
	}
	want := []string{"new1", "new2", "old"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order after upload = %v, want %v", got, want)
	}
}

func TestController_Delete(t *testing.T) {
	t.Run("success patches the list", func(t *testing.T) {
		f := &fakeMediaAPI{deleteErr: map[string]error{}}
		c := New(models.Images, f)
		c.items = []models.MediaItem{item("a"), item("b")}
		c.selection.Add("a")

		if err := c.Delete(context.Background(), "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Len() != 1 || c.Items()[0].ID != "b" {
			t.Errorf("expected only b to remain, got %v", c.Items())
		}
		if c.Selection().Has("a") {
			t.Error("deleted item must leave the selection")
		}
	})

	t.Run("failure leaves the list alone", func(t *testing.T) {
		f := &fakeMediaAPI{deleteErr: map[string]error{"a": errors.New("denied")}}
		c := New(models.Images, f)
		c.items = []models.MediaItem{item("a")}

		if err := c.Delete(context.Background(), "a"); err == nil {
			t.Fatal("expected error")
		}
		if c.Len() != 1 {
			t.Errorf("list changed on failed delete: %v", c.Items())
		}
	})
}

func TestController_ToggleSelectAll(t *testing.T) {
	c := New(models.Images, &fakeMediaAPI{})
	c.items = []models.MediaItem{item("a"), item("b"), item("c")}

	c.ToggleSelectAll()
	if got := c.Selection().Count(); got != 3 {
		t.Fatalf("after first toggle Count() = %d, want 3", got)
	}

	c.ToggleSelectAll()
	if got := c.Selection().Count(); got != 0 {
		t.Fatalf("after second toggle Count() = %d, want 0", got)
	}

	// A partial selection flips to everything, not nothing.
	c.Selection().Add("b")
	c.ToggleSelectAll()
	if got := c.Selection().Count(); got != 3 {
		t.Fatalf("partial selection toggled to Count() = %d, want 3", got)
	}
}

func TestController_SelectedIDsKeepsCollectionOrder(t *testing.T) {
	c := New(models.Images, &fakeMediaAPI{})
	c.items = []models.MediaItem{item("a"), item("b"), item("c")}
	c.selection.Add("c")
	c.selection.Add("a")

	got := c.SelectedIDs()
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectedIDs() = %v, want %v", got, want)
	}
}

func TestSelection_Toggle(t *testing.T) {
	var s Selection
	s.Toggle("x")
	if !s.Has("x") {
		t.Fatal("expected x selected after first toggle")
	}
	s.Toggle("x")
	if s.Has("x") {
		t.Fatal("expected x deselected after second toggle")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}
