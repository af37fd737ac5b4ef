// Package collection owns the in-memory media list for one resource
// kind: the initial load, optimistic patches after uploads and deletes,
// multi-select state, concurrent bulk actions, and the preview state
// machine for images.
package collection

import (
	"context"
	"errors"
	"io"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/models"
)

// MediaAPI is the slice of the REST client the controller needs.
type MediaAPI interface {
	ListMedia(ctx context.Context, kind models.Kind) ([]models.MediaItem, error)
	DeleteMedia(ctx context.Context, kind models.Kind, id string) error
	DownloadZip(ctx context.Context, kind models.Kind, ids []string, w io.Writer) (int64, error)
}

// Controller holds the fetched collection for one kind. The list is a
// local cache of server state: mutations patch it in place and no
// re-fetch happens until Refresh is called.
type Controller struct {
	kind      models.Kind
	client    MediaAPI
	items     []models.MediaItem
	selection Selection
	loadErr   string
}

// New creates a controller with an empty collection.
func New(kind models.Kind, client MediaAPI) *Controller {
	return &Controller{kind: kind, client: client}
}

// Kind returns the resource kind this controller owns.
func (c *Controller) Kind() models.Kind { return c.kind }

// Load fetches the full collection. On 401 the collection is emptied and
// api.ErrSessionExpired is returned so the caller can drop the session.
// On any other failure the server message is kept as page-level error
// state and the collection is emptied.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.client.ListMedia(ctx, c.kind)
	if err != nil {
		c.items = nil
		if errors.Is(err, api.ErrSessionExpired) {
			c.loadErr = "Session expired. Please login again."
			return err
		}
		c.loadErr = err.Error()
		return err
	}
	c.items = items
	c.loadErr = ""
	return nil
}

// Refresh re-runs the initial fetch.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Err returns the page-level error recorded by the last failed Load,
// or "" when the last load succeeded.
func (c *Controller) Err() string { return c.loadErr }

// Items returns the current collection, newest first.
func (c *Controller) Items() []models.MediaItem { return c.items }

// Len returns the collection size.
func (c *Controller) Len() int { return len(c.items) }

// ApplyUpload prepends freshly created items so the newest appear first.
// No server round-trip: the list is assumed consistent after a
// successful upload call.
func (c *Controller) ApplyUpload(items ...models.MediaItem) {
	if len(items) == 0 {
		return
	}
	c.items = append(append([]models.MediaItem{}, items...), c.items...)
}

// ApplyDelete removes the item with the given ID, if present.
func (c *Controller) ApplyDelete(id string) {
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.selection.Remove(id)
			return
		}
	}
}

// Delete removes a single item: one DELETE call, then a local patch on
// success.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.client.DeleteMedia(ctx, c.kind, id); err != nil {
		return err
	}
	c.ApplyDelete(id)
	return nil
}

// Selection exposes the controller's multi-select state.
func (c *Controller) Selection() *Selection { return &c.selection }

// ToggleSelectAll switches between everything selected and nothing
// selected, based on current cardinality.
func (c *Controller) ToggleSelectAll() {
	if c.selection.Count() == len(c.items) {
		c.selection.Clear()
		return
	}
	c.selection.Clear()
	for _, item := range c.items {
		c.selection.Add(item.ID)
	}
}

// SelectedIDs returns the selected IDs in collection order.
func (c *Controller) SelectedIDs() []string {
	ids := make([]string, 0, c.selection.Count())
	for _, item := range c.items {
		if c.selection.Has(item.ID) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
