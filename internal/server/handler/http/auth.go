package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new account from name, email, and password.
	Register(ctx context.Context, name, email, password string) (models.Account, error)
	// Authenticate verifies an email/password pair.
	Authenticate(ctx context.Context, email, password string) (models.Account, error)
}

// TokenIssuer signs a bearer token for a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Tokens issues the bearer tokens returned to the client.
	Tokens TokenIssuer
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/users/register.
// It expects name, email, and password, creates the account, and
// responds with the session record: token plus user identity.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	acc, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.respondWithSession(w, acc)
}

// Login handles POST /api/users/login.
// On a matching email/password pair it responds with the session
// record; otherwise 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	acc, err := h.AuthService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.respondWithSession(w, acc)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, acc models.Account) {
	token, err := h.Tokens.Issue(acc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, models.Session{
		Token:          token,
		ID:             acc.ID,
		Name:           acc.Name,
		Email:          acc.Email,
		ProfilePicture: acc.ProfilePicture,
	})
}
