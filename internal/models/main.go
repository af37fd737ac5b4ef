// Package models defines the core data structures for users, sessions,
// and stored media items, plus the per-kind resource descriptors.
package models

import "mime"

// User represents an account as returned by the backend.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// Email is the account email address.
	Email string `json:"email"`
	// ProfilePicture is the stored filename of the avatar, if any.
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Account is the server-side user record, including credentials.
type Account struct {
	// ID is the unique identifier for the user.
	ID string
	// Name is the display name of the user.
	Name string
	// Email is the login email, unique per account.
	Email string
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte
	// ProfilePicture is the stored filename of the avatar, if any.
	ProfilePicture string
}

// User returns the public view of the account.
func (a Account) User() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, ProfilePicture: a.ProfilePicture}
}

// Session is the durable client-side session record: the bearer token
// plus the user identity echoed back by login/register.
type Session struct {
	Token          string `json:"token"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// User returns the identity part of the session.
func (s Session) User() User {
	return User{ID: s.ID, Name: s.Name, Email: s.Email, ProfilePicture: s.ProfilePicture}
}

// MediaItem is a stored file of any kind as the server reports it.
// The client treats it as an opaque record; only ID and Size are
// interpreted locally.
type MediaItem struct {
	// ID is the server-assigned identifier.
	ID string `json:"_id"`
	// OriginalName is the filename as uploaded by the user.
	OriginalName string `json:"originalName"`
	// Filename is the stored name under the uploads directory.
	Filename string `json:"filename"`
	// Path is the server-relative path to the stored file.
	Path string `json:"path,omitempty"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// UploadDate is the RFC3339 timestamp of the upload.
	UploadDate string `json:"uploadDate"`
	// Type is the document subtype (pdf, docx, ...), documents only.
	Type string `json:"type,omitempty"`
}

// StorageQuota is the fixed per-account storage allowance in bytes.
const StorageQuota int64 = 2 * 1024 * 1024 * 1024

const (
	mb = 1024 * 1024

	// MaxImageSize is the per-file ceiling for image uploads.
	MaxImageSize int64 = 20 * mb
	// MaxVideoSize is the per-file ceiling for video uploads.
	MaxVideoSize int64 = 50 * mb
	// MaxDocumentSize is the per-file ceiling for document uploads.
	MaxDocumentSize int64 = 50 * mb
)

// Kind describes one resource kind (images, videos, documents): its API
// paths, upload form fields, validation rules, and capabilities. The three
// near-identical galleries of the original UI collapse into code
// parameterized by a Kind.
type Kind struct {
	// Name is the singular noun ("image").
	Name string
	// Plural is the plural noun and the API path segment ("images").
	Plural string
	// UploadField is the multipart field name for single upload.
	UploadField string
	// MultiUploadField is the multipart field name for bulk upload.
	MultiUploadField string
	// ZipIDsField is the JSON key carrying selected IDs for zip download.
	ZipIDsField string
	// AllowedTypes is the MIME allow-list for uploads.
	AllowedTypes []string
	// MaxFileSize is the per-file upload ceiling in bytes.
	MaxFileSize int64
	// SingleUpload reports whether the kind has a dedicated
	// single-file endpoint in addition to the bulk one.
	SingleUpload bool
}

// BasePath returns the API collection path, e.g. "/api/images".
func (k Kind) BasePath() string {
	return "/api/" + k.Plural
}

// Allows reports whether the MIME type is acceptable for this kind.
// Parameters like "; charset=utf-8" are ignored; only the media type
// itself is matched.
func (k Kind) Allows(mimeType string) bool {
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	for _, t := range k.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

var (
	// Images is the image resource kind.
	Images = Kind{
		Name:             "image",
		Plural:           "images",
		UploadField:      "image",
		MultiUploadField: "images",
		ZipIDsField:      "imageIds",
		AllowedTypes:     []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
		MaxFileSize:      MaxImageSize,
		SingleUpload:     true,
	}

	// Videos is the video resource kind.
	Videos = Kind{
		Name:             "video",
		Plural:           "videos",
		UploadField:      "video",
		MultiUploadField: "videos",
		ZipIDsField:      "videoIds",
		AllowedTypes:     []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime", "video/x-matroska"},
		MaxFileSize:      MaxVideoSize,
	}

	// Documents is the document resource kind.
	Documents = Kind{
		Name:             "document",
		Plural:           "documents",
		UploadField:      "document",
		MultiUploadField: "documents",
		ZipIDsField:      "documentIds",
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/plain",
			"text/csv",
			"application/zip",
		},
		MaxFileSize: MaxDocumentSize,
	}

	// Kinds lists every resource kind in display order.
	Kinds = []Kind{Images, Videos, Documents}
)

// KindByName resolves a kind from its singular or plural name.
// Returns nil if the name matches no kind.
func KindByName(name string) *Kind {
	for i := range Kinds {
		if Kinds[i].Name == name || Kinds[i].Plural == name {
			return &Kinds[i]
		}
	}
	return nil
}
