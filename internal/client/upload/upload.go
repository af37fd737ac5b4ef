// Package upload validates candidate files against the kind's rules and
// transmits the valid remainder, choosing the single or bulk endpoint by
// selection size.
package upload

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/models"
)

// UploadAPI is the slice of the REST client the uploader needs.
type UploadAPI interface {
	UploadSingle(ctx context.Context, kind models.Kind, file api.File) (models.MediaItem, error)
	UploadMultiple(ctx context.Context, kind models.Kind, files []api.File) ([]models.MediaItem, error)
}

// Uploader sends files of one kind to the backend.
type Uploader struct {
	kind   models.Kind
	client UploadAPI
}

// New constructs an uploader for the given kind.
func New(kind models.Kind, client UploadAPI) *Uploader {
	return &Uploader{kind: kind, client: client}
}

// Validate splits candidates into the valid remainder and one error per
// rejected file. A file is rejected when its declared type is outside
// the kind's allow-list or its size exceeds the ceiling; rejection of
// one file never blocks the others.
func Validate(kind models.Kind, files []api.File) (valid []api.File, invalid error) {
	for _, f := range files {
		if !kind.Allows(f.Type) {
			invalid = multierr.Append(invalid,
				fmt.Errorf("file %q is not a valid %s type", f.Name, kind.Name))
			continue
		}
		if f.Size > kind.MaxFileSize {
			invalid = multierr.Append(invalid,
				fmt.Errorf("file %q is too large (max %d MB)", f.Name, kind.MaxFileSize/(1024*1024)))
			continue
		}
		valid = append(valid, f)
	}
	return valid, invalid
}

// Result is the outcome of one Send: the created items plus the
// per-file validation errors for the batch members that were never
// transmitted.
type Result struct {
	Items    []models.MediaItem
	Rejected error
}

// Send validates the batch and uploads the valid files. The single-file
// endpoint is used only when the kind has one and exactly one valid file
// remains; otherwise the bulk endpoint is used. Created items are
// returned for prepending to the collection. A transport or server
// failure aborts the whole upload with no retry.
func (u *Uploader) Send(ctx context.Context, files []api.File) (Result, error) {
	valid, invalid := Validate(u.kind, files)
	res := Result{Rejected: invalid}
	if len(valid) == 0 {
		return res, nil
	}

	if len(valid) == 1 && u.kind.SingleUpload {
		item, err := u.client.UploadSingle(ctx, u.kind, valid[0])
		if err != nil {
			return res, fmt.Errorf("failed to upload %q: %w", valid[0].Name, err)
		}
		res.Items = []models.MediaItem{item}
		return res, nil
	}

	items, err := u.client.UploadMultiple(ctx, u.kind, valid)
	if err != nil {
		return res, err
	}
	res.Items = items
	return res, nil
}

// FromPath opens a file on disk as an upload candidate, inferring the
// MIME type from the extension. The caller closes the returned file via
// the Close function.
func FromPath(path string) (api.File, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.File{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return api.File{}, nil, err
	}
	return api.File{
		Name: filepath.Base(path),
		Type: mime.TypeByExtension(filepath.Ext(path)),
		Size: info.Size(),
		Data: f,
	}, f.Close, nil
}
