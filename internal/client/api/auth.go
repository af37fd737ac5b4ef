package api

import (
	"context"
	"net/http"

	"github.com/galleryhub/galleryhub/internal/models"
)

// Login authenticates with email and password and returns the session
// record (token plus user identity).
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var sess models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login", payload, &sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Register creates a new account and returns the session record.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var sess models.Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/register", payload, &sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}
