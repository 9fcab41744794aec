// auth.go - Bearer token transport and the authentication middleware.
package server

import (
	"context"
	"net/http"
	"strings"
)

const userIDKey ctxKey = "user_id"

// UserIDFromContext returns the authenticated caller's user ID, or "" when
// the request did not pass through requireAuth.
func UserIDFromContext(ctx context.Context) string {
	v := ctx.Value(userIDKey)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. An absent or malformed header is errTokenMissing.
func bearerToken(r *http.Request) (string, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return "", errTokenMissing
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(raw, prefix) {
		return "", errTokenMissing
	}
	token := strings.TrimSpace(raw[len(prefix):])
	if token == "" {
		return "", errTokenMissing
	}
	return token, nil
}

// requireAuth rejects requests without a valid bearer token and stores the
// verified user ID in the request context for downstream handlers.
func (a AuthConfig) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			http.Error(w, "token required", http.StatusForbidden)
			return
		}

		userID, err := a.verifyToken(token)
		if err != nil {
			if err == errTokenExpired {
				http.Error(w, "token expired", http.StatusForbidden)
				return
			}
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
