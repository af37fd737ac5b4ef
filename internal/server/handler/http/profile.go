package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/galleryhub/galleryhub/internal/middleware"
	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// maxAvatarSize bounds the profile picture upload.
const maxAvatarSize = 5 * 1024 * 1024

// ProfileService defines the profile operations required by the HTTP
// handlers.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (models.Account, error)
	UpdateProfile(ctx context.Context, userID, name, email, currentPassword, newPassword string) (models.Account, error)
	SetProfilePicture(ctx context.Context, userID, filename string) (models.Account, error)
}

// ProfileHandler handles HTTP requests for the account profile.
type ProfileHandler struct {
	// ProfileService performs the underlying account operations.
	ProfileService ProfileService
	// UploadsDir is where avatar bytes are stored.
	UploadsDir string
}

// Get handles GET /api/users/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	acc, err := h.ProfileService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, acc.User())
}

// Update handles PUT /api/users/profile: name and email, plus an
// optional password change that requires the current password.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.NewPassword != "" && req.CurrentPassword == "" {
		writeError(w, http.StatusBadRequest, "current password is required to change password")
		return
	}

	acc, err := h.ProfileService.UpdateProfile(r.Context(), userID, req.Name, req.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, acc.User())
}

// UpdatePicture handles PUT /api/users/profile/picture: a multipart
// form with the cropped avatar under the "profilePicture" field.
func (h *ProfileHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("profilePicture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no picture provided")
		return
	}
	defer file.Close()

	stored := uuid.NewString() + ".jpeg"
	dst, err := os.Create(filepath.Join(h.UploadsDir, stored))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store picture")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(filepath.Join(h.UploadsDir, stored))
		writeError(w, http.StatusInternalServerError, "failed to store picture")
		return
	}
	dst.Close()

	acc, err := h.ProfileService.SetProfilePicture(r.Context(), userID, stored)
	if err != nil {
		os.Remove(filepath.Join(h.UploadsDir, stored))
		writeError(w, http.StatusInternalServerError, "failed to update profile picture")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profilePicture": acc.ProfilePicture})
}
