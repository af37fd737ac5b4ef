package collection

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
)

// BulkResult carries per-item outcomes of a concurrent bulk delete, so
// callers can choose all-or-nothing or best-effort semantics.
type BulkResult struct {
	// Deleted holds IDs whose DELETE call succeeded.
	Deleted []string
	// Failed maps each failed ID to its error.
	Failed map[string]error
}

// Err aggregates the per-item failures, or nil when everything
// succeeded.
func (r BulkResult) Err() error {
	var err error
	for id, itemErr := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("delete %s: %w", id, itemErr))
	}
	return err
}

// deleteAll fires one DELETE per ID concurrently and waits for all of
// them. There is no early abort: every request runs to completion.
func (c *Controller) deleteAll(ctx context.Context, ids []string) BulkResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = BulkResult{Failed: make(map[string]error)}
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := c.client.DeleteMedia(ctx, c.kind, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
			} else {
				result.Deleted = append(result.Deleted, id)
			}
		}(id)
	}
	wg.Wait()
	return result
}

// DeleteSelected deletes every selected item concurrently. If any single
// request fails the whole batch is reported as failed and the local list
// is left untouched for all of them, even for IDs whose requests
// succeeded server-side. The selection is cleared unconditionally.
// The per-item outcomes remain available in the returned BulkResult.
func (c *Controller) DeleteSelected(ctx context.Context) (BulkResult, error) {
	ids := c.SelectedIDs()
	defer c.selection.Clear()
	if len(ids) == 0 {
		return BulkResult{}, nil
	}

	result := c.deleteAll(ctx, ids)
	if len(result.Failed) > 0 {
		return result, result.Err()
	}
	for _, id := range result.Deleted {
		c.ApplyDelete(id)
	}
	return result, nil
}

// DownloadSelected posts the selected IDs to the zip endpoint and
// streams the archive into w. The selection is cleared only on success.
func (c *Controller) DownloadSelected(ctx context.Context, w io.Writer) (int64, error) {
	ids := c.SelectedIDs()
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := c.client.DownloadZip(ctx, c.kind, ids, w)
	if err != nil {
		return n, err
	}
	c.selection.Clear()
	return n, nil
}

// ConfirmMessage returns the confirmation prompt for deleting n items,
// worded singular or plural.
func (c *Controller) ConfirmMessage(n int) string {
	if n == 1 {
		return fmt.Sprintf("Are you sure you want to delete this %s?", c.kind.Name)
	}
	return fmt.Sprintf("Are you sure you want to delete %d %s? This action cannot be undone.", n, c.kind.Plural)
}
