package middleware

import (
	"context"
	"net/http"
	"strings"
)

// userIDKey is the context key carrying the authenticated user id
type userIDKey struct{}

// Identity extracts the caller's user id from the X-User-ID header.
// Authentication itself happens upstream; an absent header means an
// anonymous caller, which is allowed.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
			if userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID returns the authenticated user id from the request context,
// empty for anonymous callers.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}
