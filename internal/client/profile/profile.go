// Package profile implements the account editor: fetching and updating
// profile fields, replacing the avatar with a client-side square crop,
// and aggregating storage usage across all three media kinds.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/client/session"
	"github.com/galleryhub/galleryhub/internal/models"
)

// ErrPasswordMismatch is reported when the new and confirm password
// fields differ. No other password policy is enforced client-side.
var ErrPasswordMismatch = errors.New("new passwords do not match")

// ProfileAPI is the slice of the REST client the editor needs.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (models.User, error)
	UpdateProfilePicture(ctx context.Context, jpeg []byte) (string, error)
	ListMedia(ctx context.Context, kind models.Kind) ([]models.MediaItem, error)
}

// Editor edits the authenticated account. Successful updates patch the
// session store in place so the rest of the client observes them.
type Editor struct {
	client   ProfileAPI
	sessions *session.Store
}

// NewEditor constructs an editor over the given client and session
// store.
func NewEditor(client ProfileAPI, sessions *session.Store) *Editor {
	return &Editor{client: client, sessions: sessions}
}

// Fetch loads the profile from the server.
func (e *Editor) Fetch(ctx context.Context) (models.User, error) {
	return e.client.GetProfile(ctx)
}

// Update submits name and email, plus a password change when newPwd is
// set. A password change requires the current password and an exact
// match between newPwd and confirmPwd; the mismatch is caught before
// any request is sent.
func (e *Editor) Update(ctx context.Context, name, email, currentPwd, newPwd, confirmPwd string) (models.User, error) {
	update := api.ProfileUpdate{Name: name, Email: email}
	if newPwd != "" {
		if newPwd != confirmPwd {
			return models.User{}, ErrPasswordMismatch
		}
		if currentPwd == "" {
			return models.User{}, errors.New("current password is required to change password")
		}
		update.CurrentPassword = currentPwd
		update.NewPassword = newPwd
	}

	user, err := e.client.UpdateProfile(ctx, update)
	if err != nil {
		return models.User{}, err
	}

	if err := e.sessions.Update(func(s *models.Session) {
		s.Name = user.Name
		s.Email = user.Email
	}); err != nil {
		return user, fmt.Errorf("persist session: %w", err)
	}
	return user, nil
}

// SetPicture uploads the cropped avatar bytes and records the stored
// filename in the session.
func (e *Editor) SetPicture(ctx context.Context, jpeg []byte) (string, error) {
	filename, err := e.client.UpdateProfilePicture(ctx, jpeg)
	if err != nil {
		return "", err
	}
	if err := e.sessions.Update(func(s *models.Session) {
		s.ProfilePicture = filename
	}); err != nil {
		return filename, fmt.Errorf("persist session: %w", err)
	}
	return filename, nil
}

// Usage is the account's aggregate storage consumption against the
// fixed quota.
type Usage struct {
	Used  int64
	Quota int64
}

// Percent returns used storage as a percentage of the quota, capped at
// 100.
func (u Usage) Percent() float64 {
	if u.Quota == 0 {
		return 0
	}
	p := float64(u.Used) / float64(u.Quota) * 100
	if p > 100 {
		return 100
	}
	return p
}

// StorageUsage fetches all three collections in parallel solely to sum
// their sizes. The join is all-or-nothing: if any fetch fails the whole
// aggregate is reported as failed. The value is recomputed on every
// call, never cached.
func (e *Editor) StorageUsage(ctx context.Context) (Usage, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
		first error
	)

	for _, kind := range models.Kinds {
		wg.Add(1)
		go func(kind models.Kind) {
			defer wg.Done()
			items, err := e.client.ListMedia(ctx, kind)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if first == nil {
					first = err
				}
				return
			}
			for _, item := range items {
				total += item.Size
			}
		}(kind)
	}
	wg.Wait()

	if first != nil {
		return Usage{}, first
	}
	return Usage{Used: total, Quota: models.StorageQuota}, nil
}
