package server

import (
	"context"
	"net/http"
	"strings"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const userIDContextKey contextKey = "userID"

// UserIDFromContext retrieves the authenticated user ID from the request
// context. The second return is false for unauthenticated requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

// requireAuth verifies the Bearer token and injects the authenticated user ID
// into the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, codeNotAuthorized, "not authorized, no token")
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, codeNotAuthorized, "not authorized, token failed")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}
