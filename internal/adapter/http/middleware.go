package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware validates the bearer token on every API request and resolves
// the acting user from the X-User-ID header. Requests with a missing or
// invalid token are rejected before any handler runs.
func AuthMiddleware(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token != validToken {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFromContext returns the user injected by AuthMiddleware.
func userFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}
