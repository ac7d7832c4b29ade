package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		method        string
		authenticated bool
		want          Decision
	}{
		{name: "login page anonymous", path: "/login", method: http.MethodGet, want: Allow},
		{name: "login page authenticated", path: "/login", method: http.MethodGet, authenticated: true, want: RedirectToAdmin},
		{name: "login subpath authenticated", path: "/login/reset", method: http.MethodGet, authenticated: true, want: Allow},
		{name: "auth api anonymous post", path: "/api/auth", method: http.MethodPost, want: Allow},
		{name: "comments anonymous post", path: "/api/comments", method: http.MethodPost, want: Allow},
		{name: "comments anonymous delete", path: "/api/comments", method: http.MethodDelete, want: Allow},
		{name: "admin anonymous", path: "/admin", method: http.MethodGet, want: RedirectToLogin},
		{name: "admin subpage anonymous", path: "/admin/hero", method: http.MethodGet, want: RedirectToLogin},
		{name: "admin authenticated", path: "/admin/hero", method: http.MethodGet, authenticated: true, want: Allow},
		{name: "posts anonymous get", path: "/api/posts", method: http.MethodGet, want: Allow},
		{name: "posts anonymous head", path: "/api/posts", method: http.MethodHead, want: Allow},
		{name: "posts anonymous options", path: "/api/posts", method: http.MethodOptions, want: Allow},
		{name: "posts anonymous post", path: "/api/posts", method: http.MethodPost, want: Reject},
		{name: "hero anonymous put", path: "/api/hero", method: http.MethodPut, want: Reject},
		{name: "profile anonymous delete", path: "/api/profile", method: http.MethodDelete, want: Reject},
		{name: "author anonymous put", path: "/api/author", method: http.MethodPut, want: Reject},
		{name: "redes anonymous post", path: "/api/redes", method: http.MethodPost, want: Reject},
		{name: "biblioteca anonymous delete", path: "/api/biblioteca", method: http.MethodDelete, want: Reject},
		{name: "biblioteca authenticated delete", path: "/api/biblioteca", method: http.MethodDelete, authenticated: true, want: Allow},
		{name: "author anonymous patch", path: "/api/author", method: http.MethodPatch, want: Reject},
		{name: "auth subpath anonymous", path: "/api/auth/", method: http.MethodPost, want: Allow},
		{name: "login lookalike authenticated", path: "/loginX", method: http.MethodGet, authenticated: true, want: Allow},
		{name: "comments lookalike anonymous post", path: "/api/commentsX", method: http.MethodPost, want: Allow},
		{name: "posts subpath anonymous post", path: "/api/posts/tags", method: http.MethodPost, want: Reject},
		{name: "admin lookalike anonymous", path: "/administrator", method: http.MethodGet, want: Allow},
		{name: "health anonymous", path: "/health", method: http.MethodGet, want: Allow},
		{name: "unknown api anonymous post", path: "/api/other", method: http.MethodPost, want: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.path, tt.method, tt.authenticated))
		})
	}
}

type mockChecker struct {
	valid string
	calls int
}

func (m *mockChecker) Check(_ context.Context, token string) bool {
	m.calls++
	return token == m.valid
}

func TestGuardMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		method         string
		path           string
		cookie         string
		expectedStatus int
		expectedLoc    string
		expectedAuth   bool
		expectedChecks int
	}{
		{name: "anonymous read", method: http.MethodGet, path: "/api/posts", expectedStatus: http.StatusOK},
		{name: "anonymous write", method: http.MethodPost, path: "/api/posts", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token write", method: http.MethodPost, path: "/api/posts", cookie: "forged", expectedStatus: http.StatusUnauthorized, expectedChecks: 1},
		{name: "valid token write", method: http.MethodPost, path: "/api/posts", cookie: "good", expectedStatus: http.StatusOK, expectedAuth: true, expectedChecks: 1},
		{name: "admin redirect", method: http.MethodGet, path: "/admin", expectedStatus: http.StatusFound, expectedLoc: "/login"},
		{name: "login redirect", method: http.MethodGet, path: "/login", cookie: "good", expectedStatus: http.StatusFound, expectedLoc: "/admin", expectedChecks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &mockChecker{valid: "good"}

			var gotAuth bool
			handler := GuardMiddleware(logger, checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = IsAuthenticated(r.Context())
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedAuth, gotAuth)
			assert.Equal(t, tt.expectedChecks, checker.calls)
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, w.Header().Get("Location"))
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/comments", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments", nil)
	req = req.WithContext(WithAuthenticated(req.Context(), true))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
