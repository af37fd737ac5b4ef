package http

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/galleryhub/galleryhub/internal/middleware"
	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// MediaService defines the media operations required by the HTTP
// handlers.
type MediaService interface {
	List(ctx context.Context, userID, kind string) ([]models.MediaItem, error)
	Add(ctx context.Context, userID, kind string, item models.MediaItem) error
	Get(ctx context.Context, userID, kind, id string) (models.MediaItem, error)
	Delete(ctx context.Context, userID, kind, id string) (models.MediaItem, error)
}

// MediaHandler serves one resource kind's collection: list, upload,
// delete, and zip download.
type MediaHandler struct {
	// Kind describes the resource kind this handler serves.
	Kind models.Kind
	// MediaService performs the underlying media operations.
	MediaService MediaService
	// UploadsDir is where uploaded file bytes are stored.
	UploadsDir string
}

// List handles GET /api/{kind}. It responds with the user's full
// collection, newest first.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	items, err := h.MediaService.List(r.Context(), userID, h.Kind.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list "+h.Kind.Plural)
		return
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Upload handles POST /api/{kind}/upload: a single file under the
// kind's single-upload field. Responds with the created item.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(h.Kind.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile(h.Kind.UploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no "+h.Kind.Name+" file provided")
		return
	}
	defer file.Close()

	item, err := h.storeFile(r.Context(), userID, file, header)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UploadMultiple handles POST /api/{kind}/upload-multiple: any number
// of files under the kind's bulk field. Responds with the created items
// wrapped in a field named after the kind, e.g. {"images": [...]}.
func (h *MediaHandler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(h.Kind.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File[h.Kind.MultiUploadField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no "+h.Kind.Plural+" provided")
		return
	}

	items := make([]models.MediaItem, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %q", header.Filename))
			return
		}
		item, err := h.storeFile(r.Context(), userID, file, header)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusCreated, map[string][]models.MediaItem{h.Kind.Plural: items})
}

// Delete handles DELETE /api/{kind}/{id}. The stored file is removed
// along with its record.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	item, err := h.MediaService.Delete(r.Context(), userID, h.Kind.Name, id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, h.Kind.Name+" not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete "+h.Kind.Name)
		return
	}
	_ = os.Remove(filepath.Join(h.UploadsDir, item.Filename))

	writeJSON(w, http.StatusOK, map[string]string{"message": h.Kind.Name + " deleted"})
}

// DownloadZip handles POST /api/{kind}/download-zip. The body carries
// the selected IDs under the kind's IDs field; the response streams a
// zip archive of those files.
func (h *MediaHandler) DownloadZip(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var body map[string][]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	ids := body[h.Kind.ZipIDsField]
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "no "+h.Kind.Name+" ids provided")
		return
	}

	// Resolve every item before writing the archive so a bad ID still
	// yields a clean error response.
	items := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		item, err := h.MediaService.Get(r.Context(), userID, h.Kind.Name, id)
		if err != nil {
			if errors.Is(err, service.ErrItemNotFound) {
				writeError(w, http.StatusNotFound, h.Kind.Name+" not found: "+id)
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to resolve "+h.Kind.Plural)
			return
		}
		items = append(items, item)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.Kind.Plural+".zip"))

	zw := zip.NewWriter(w)
	defer zw.Close()
	for _, item := range items {
		f, err := os.Open(filepath.Join(h.UploadsDir, item.Filename))
		if err != nil {
			// Headers are already out; abort the stream.
			return
		}
		entry, err := zw.Create(item.OriginalName)
		if err != nil {
			f.Close()
			return
		}
		if _, err := io.Copy(entry, f); err != nil {
			f.Close()
			return
		}
		f.Close()
	}
}

// storeFile validates one uploaded file against the kind's rules,
// writes its bytes under the uploads directory, and records the item.
func (h *MediaHandler) storeFile(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (models.MediaItem, error) {
	contentType := header.Header.Get("Content-Type")
	if !h.Kind.Allows(contentType) {
		return models.MediaItem{}, fmt.Errorf("file %q is not a valid %s type", header.Filename, h.Kind.Name)
	}
	if header.Size > h.Kind.MaxFileSize {
		return models.MediaItem{}, fmt.Errorf("file %q is too large (max %d MB)", header.Filename, h.Kind.MaxFileSize/(1024*1024))
	}

	id := uuid.NewString()
	stored := id + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(h.UploadsDir, stored))
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to store %q", header.Filename)
	}
	size, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(filepath.Join(h.UploadsDir, stored))
		return models.MediaItem{}, fmt.Errorf("failed to store %q", header.Filename)
	}

	item := models.MediaItem{
		ID:           id,
		OriginalName: header.Filename,
		Filename:     stored,
		Path:         "/uploads/" + stored,
		Size:         size,
		UploadDate:   time.Now().UTC().Format(time.RFC3339),
	}
	if h.Kind.Name == models.Documents.Name {
		item.Type = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	}

	if err := h.MediaService.Add(ctx, userID, h.Kind.Name, item); err != nil {
		os.Remove(filepath.Join(h.UploadsDir, stored))
		return models.MediaItem{}, fmt.Errorf("failed to save %q", header.Filename)
	}
	return item, nil
}
