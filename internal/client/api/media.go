package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/galleryhub/galleryhub/internal/models"
)

// File is one upload candidate: a name, declared MIME type, size, and a
// reader for the content.
type File struct {
	Name string
	Type string
	Size int64
	Data io.Reader
}

// ListMedia fetches the full collection for one kind, newest first.
func (c *Client) ListMedia(ctx context.Context, kind models.Kind) ([]models.MediaItem, error) {
	var items []models.MediaItem
	if err := c.doJSON(ctx, http.MethodGet, kind.BasePath(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UploadSingle sends one file to the kind's single-file endpoint and
// returns the created item.
func (c *Client) UploadSingle(ctx context.Context, kind models.Kind, file File) (models.MediaItem, error) {
	body, contentType, err := multipartBody(kind.UploadField, file)
	if err != nil {
		return models.MediaItem{}, err
	}
	var item models.MediaItem
	if err := c.doMultipart(ctx, http.MethodPost, kind.BasePath()+"/upload", contentType, body, &item); err != nil {
		return models.MediaItem{}, err
	}
	return item, nil
}

// UploadMultiple sends files to the kind's bulk endpoint and returns the
// created items.
func (c *Client) UploadMultiple(ctx context.Context, kind models.Kind, files []File) ([]models.MediaItem, error) {
	body, contentType, err := multipartBody(kind.MultiUploadField, files...)
	if err != nil {
		return nil, err
	}
	// The bulk endpoint wraps created items in a field named after the kind.
	var resp map[string][]models.MediaItem
	if err := c.doMultipart(ctx, http.MethodPost, kind.BasePath()+"/upload-multiple", contentType, body, &resp); err != nil {
		return nil, err
	}
	return resp[kind.Plural], nil
}

// DeleteMedia removes one item by ID.
func (c *Client) DeleteMedia(ctx context.Context, kind models.Kind, id string) error {
	return c.doJSON(ctx, http.MethodDelete, kind.BasePath()+"/"+id, nil, nil)
}

// DownloadZip posts the selected IDs to the kind's zip endpoint and
// streams the binary response into w. Returns the number of bytes
// written.
func (c *Client) DownloadZip(ctx context.Context, kind models.Kind, ids []string, w io.Writer) (int64, error) {
	payload := map[string][]string{kind.ZipIDsField: ids}
	data, contentType, err := jsonBody(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+kind.BasePath()+"/download-zip", data)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", contentType)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download zip: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	return io.Copy(w, resp.Body)
}

// multipartBody builds an in-memory multipart form with every file under
// the given field name.
func multipartBody(field string, files ...File) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
		if f.Type != "" {
			h.Set("Content-Type", f.Type)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Data); err != nil {
			return nil, "", fmt.Errorf("read %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func jsonBody(payload any) (io.Reader, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
