package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/folio/internal/server/auth"
	"github.com/iudanet/folio/internal/server/middleware"
	"github.com/iudanet/folio/pkg/api"
)

type mockAuthenticator struct {
	loginErr  error
	logoutErr error
	token     string
	lastKey   string
	revoked   []string
}

func (m *mockAuthenticator) Login(_ context.Context, key, password string) (string, error) {
	m.lastKey = key
	if m.loginErr != nil {
		return "", m.loginErr
	}
	if password != "secreto" {
		return "", auth.ErrInvalidCredentials
	}
	return m.token, nil
}

func (m *mockAuthenticator) Logout(_ context.Context, token string) error {
	if m.logoutErr != nil {
		return m.logoutErr
	}
	m.revoked = append(m.revoked, token)
	return nil
}

func (m *mockAuthenticator) Check(_ context.Context, token string) bool {
	return token == m.token
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		loginErr       error
		name           string
		body           string
		expectedStatus int
		expectCookie   bool
	}{
		{name: "success", body: `{"password":"secreto"}`, expectedStatus: http.StatusOK, expectCookie: true},
		{name: "wrong password", body: `{"password":"nope"}`, expectedStatus: http.StatusUnauthorized},
		{name: "rate limited", body: `{"password":"secreto"}`, loginErr: auth.ErrRateLimited, expectedStatus: http.StatusTooManyRequests},
		{name: "malformed body", body: `{"password":`, expectedStatus: http.StatusBadRequest},
		{name: "storage failure", body: `{"password":"secreto"}`, loginErr: errors.New("disk full"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAuthenticator{token: strings.Repeat("a", 64), loginErr: tt.loginErr}
			h := NewAuthHandler(setupTestLogger(), m, CookieConfig{Secure: true})

			req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(tt.body))
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			w := httptest.NewRecorder()
			h.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			cookies := w.Result().Cookies()
			if !tt.expectCookie {
				assert.Empty(t, cookies)
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}

			assert.Equal(t, "203.0.113.7", m.lastKey)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, middleware.SessionCookie, c.Name)
			assert.Equal(t, m.token, c.Value)
			assert.Equal(t, "/", c.Path)
			assert.Equal(t, 7*24*60*60, c.MaxAge)
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	m := &mockAuthenticator{token: "tok"}
	h := NewAuthHandler(setupTestLogger(), m, CookieConfig{})

	req := httptest.NewRequest(http.MethodDelete, "/api/auth", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tok"}, m.revoked)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	t.Run("without cookie", func(t *testing.T) {
		w := do(t, h.Logout, http.MethodDelete, "/api/auth", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, m.revoked, 1)
	})

	t.Run("revoke failure", func(t *testing.T) {
		m := &mockAuthenticator{logoutErr: errors.New("io")}
		h := NewAuthHandler(setupTestLogger(), m, CookieConfig{})

		req := httptest.NewRequest(http.MethodDelete, "/api/auth", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "tok"})
		w := httptest.NewRecorder()
		h.Logout(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_Status(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &mockAuthenticator{}, CookieConfig{})

	w := do(t, h.Status, http.MethodGet, "/api/auth", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode[api.AuthStatus](t, w).Authenticated)

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	req = req.WithContext(middleware.WithAuthenticated(req.Context(), true))
	w = httptest.NewRecorder()
	h.Status(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[api.AuthStatus](t, w).Authenticated)
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(setupTestLogger(), "v1.2.3")

	w := do(t, h.Health, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode[api.HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
}
