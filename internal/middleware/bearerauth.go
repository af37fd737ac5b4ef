// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier resolves a bearer token to the user ID it was issued
// for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
// The router mounts it on the protected route group only; login and
// register stay outside it. A missing, malformed, or invalid token
// yields 401, which the client treats as session expiry.
//
// On success, the user ID from the token is stored in the request
// context for downstream handlers.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "no bearer token provided", http.StatusUnauthorized)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// GetUserIDFromContext extracts the authenticated user ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
