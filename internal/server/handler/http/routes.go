package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/galleryhub/galleryhub/internal/middleware"
	"github.com/galleryhub/galleryhub/internal/models"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs and returns an HTTP handler that serves the
// Gallery Hub API. It applies request logging and bearer-token
// authentication, and mounts the user, media, and assistant endpoints
// under /api plus the static uploads directory.
//
// Routes:
//
//	POST   /api/users/register          → authHandler.Register (public)
//	POST   /api/users/login             → authHandler.Login (public)
//	GET    /api/users/profile           → profileHandler.Get
//	PUT    /api/users/profile           → profileHandler.Update
//	PUT    /api/users/profile/picture   → profileHandler.UpdatePicture
//	GET    /api/{kind}                  → list collection
//	POST   /api/{kind}/upload           → single upload (images only)
//	POST   /api/{kind}/upload-multiple  → bulk upload
//	DELETE /api/{kind}/{id}             → delete one item
//	POST   /api/{kind}/download-zip     → zip bundle of selected IDs
//	POST   /api/chatbot                 → chatHandler.Chat
//	GET    /uploads/*                   → stored file bytes
func NewRouter(
	authHandler *AuthHandler,
	mediaHandlers []*MediaHandler,
	profileHandler *ProfileHandler,
	chatHandler *ChatHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))

			r.Get("/users/profile", profileHandler.Get)
			r.Put("/users/profile", profileHandler.Update)
			r.Put("/users/profile/picture", profileHandler.UpdatePicture)

			for _, h := range mediaHandlers {
				h := h
				r.Route("/"+h.Kind.Plural, func(r chi.Router) {
					r.Get("/", h.List)
					if h.Kind.SingleUpload {
						r.Post("/upload", h.Upload)
					}
					r.Post("/upload-multiple", h.UploadMultiple)
					r.Post("/download-zip", h.DownloadZip)
					r.Delete("/{id}", h.Delete)
				})
			}

			r.Post("/chatbot", chatHandler.Chat)
		})
	})

	// Stored file bytes, served as-is.
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDirOf(mediaHandlers))))
	r.Get("/uploads/*", fs.ServeHTTP)

	return r
}

// DefaultMediaHandlers builds one handler per resource kind over the
// same media service and uploads directory.
func DefaultMediaHandlers(media MediaService, uploadsDir string) []*MediaHandler {
	handlers := make([]*MediaHandler, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		handlers = append(handlers, &MediaHandler{Kind: kind, MediaService: media, UploadsDir: uploadsDir})
	}
	return handlers
}

func uploadsDirOf(handlers []*MediaHandler) string {
	if len(handlers) == 0 {
		return "uploads"
	}
	return handlers[0].UploadsDir
}
