package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIdentity_HeaderPropagated(t *testing.T) {
	var captured string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "user-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "user-42" {
		t.Errorf("expected user-42, got %q", captured)
	}
}

func TestIdentity_Anonymous(t *testing.T) {
	var captured string
	handler := Identity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = UserID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if captured != "" {
		t.Errorf("expected empty user id, got %q", captured)
	}
}

func TestUserID_NoMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserID(req.Context()); got != "" {
		t.Errorf("expected empty user id without middleware, got %q", got)
	}
}
