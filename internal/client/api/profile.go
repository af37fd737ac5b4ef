package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/galleryhub/galleryhub/internal/models"
)

// ProfileUpdate carries the editable account fields. Password fields are
// sent only when both are non-empty.
type ProfileUpdate struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile submits name/email and optional password change, and
// returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/profile", update, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfilePicture uploads an already-cropped JPEG as the new avatar
// and returns the stored filename.
func (c *Client) UpdateProfilePicture(ctx context.Context, jpeg []byte) (string, error) {
	body, contentType, err := multipartBody("profilePicture", File{
		Name: "profile.jpeg",
		Type: "image/jpeg",
		Size: int64(len(jpeg)),
		Data: bytes.NewReader(jpeg),
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		ProfilePicture string `json:"profilePicture"`
	}
	if err := c.doMultipart(ctx, http.MethodPut, "/api/users/profile/picture", contentType, body, &resp); err != nil {
		return "", err
	}
	return resp.ProfilePicture, nil
}
