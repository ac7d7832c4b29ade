package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/auth"
	"github.com/iudanet/folio/internal/server/collection"
	"github.com/iudanet/folio/internal/server/comments"
	"github.com/iudanet/folio/internal/server/content"
	"github.com/iudanet/folio/internal/server/handlers"
	"github.com/iudanet/folio/internal/server/library"
	"github.com/iudanet/folio/internal/server/middleware"
	"github.com/iudanet/folio/internal/server/profile"
	"github.com/iudanet/folio/internal/server/ratelimit"
	"github.com/iudanet/folio/internal/server/storage/file"
)

const password = "ArchivoAlsil2026"

func newTestServer(t *testing.T, webDir string) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docs, err := file.New(t.TempDir())
	require.NoError(t, err)

	loginLimiter, err := ratelimit.NewFixedWindow(ratelimit.Rule{Max: 5, Window: 15 * time.Minute}, 0)
	require.NoError(t, err)
	commentsLimiter, err := ratelimit.NewFixedWindow(ratelimit.Rule{Max: 2, Window: time.Minute}, 0)
	require.NoError(t, err)

	tokens := auth.NewDigestTokenStore(docs, []byte("router-test-secret"), auth.DefaultMaxSessions)
	authSvc := auth.NewService(logger, tokens, loginLimiter, auth.Credentials{Password: password})

	h := Handlers{
		Auth:     handlers.NewAuthHandler(logger, authSvc, handlers.CookieConfig{}),
		Health:   handlers.NewHealthHandler(logger, "test"),
		Posts:    handlers.NewPostsHandler(logger, content.NewStore(logger, t.TempDir())),
		Comments: handlers.NewCommentsHandler(logger, comments.NewService(docs, comments.CascadeDirect)),
		Library:  handlers.NewLibraryHandler(logger, library.NewService(docs)),
		Profile:  handlers.NewProfileHandler(logger, profile.NewService(docs)),
		Hero: handlers.NewCollectionHandler(logger,
			collection.New[models.HeroSlide, *models.HeroSlide](docs, "hero-slides"),
			handlers.PrepareHeroSlide),
		Social: handlers.NewCollectionHandler(logger,
			collection.New(docs, "redes", collection.WithSeed[models.SocialLink, *models.SocialLink](models.DefaultSocialLinks)),
			handlers.PrepareSocialLink),
	}

	r, err := New(h, Options{
		Logger:          logger,
		Checker:         authSvc,
		CommentsLimiter: commentsLimiter,
		Registry:        prometheus.NewRegistry(),
		WebDir:          webDir,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

func send(t *testing.T, c *http.Client, method, url, body string, cookie *http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func login(t *testing.T, srv *httptest.Server, c *http.Client) *http.Cookie {
	t.Helper()
	resp := send(t, c, http.MethodPost, srv.URL+"/api/auth", `{"password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRouter_AuthFlow(t *testing.T) {
	srv := newTestServer(t, "")
	c := newClient()

	resp := send(t, c, http.MethodPost, srv.URL+"/api/posts", `{"title":"Hola","content":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, c, http.MethodGet, srv.URL+"/api/auth", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, c, http.MethodPost, srv.URL+"/api/auth", `{"password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := login(t, srv, c)

	resp = send(t, c, http.MethodGet, srv.URL+"/api/auth", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, c, http.MethodPost, srv.URL+"/api/posts", `{"title":"Hola","content":"x"}`, cookie)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send(t, c, http.MethodGet, srv.URL+"/api/posts?slug=hola", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, c, http.MethodDelete, srv.URL+"/api/auth", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Отозванный токен больше не дает доступа
	resp = send(t, c, http.MethodPut, srv.URL+"/api/author", `{"name":"x"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// /api/author не попадает под публичный /api/auth
func TestRouter_AuthorRequiresSession(t *testing.T) {
	srv := newTestServer(t, "")
	c := newClient()

	resp := send(t, c, http.MethodPut, srv.URL+"/api/author", `{"name":"intruso"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = send(t, c, http.MethodGet, srv.URL+"/api/author", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "intruso")

	cookie := login(t, srv, c)
	resp = send(t, c, http.MethodPut, srv.URL+"/api/author", `{"name":"Ana"}`, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	srv := newTestServer(t, "")
	c := newClient()

	for range 5 {
		resp := send(t, c, http.MethodPost, srv.URL+"/api/auth", `{"password":"wrong"}`, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := send(t, c, http.MethodPost, srv.URL+"/api/auth", `{"password":"`+password+`"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRouter_Comments(t *testing.T) {
	srv := newTestServer(t, "")
	c := newClient()

	body := `{"slug":"hola","author":"Ana","content":"Bien"}`
	for range 2 {
		resp := send(t, c, http.MethodPost, srv.URL+"/api/comments", body, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := send(t, c, http.MethodPost, srv.URL+"/api/comments", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = send(t, c, http.MethodDelete, srv.URL+"/api/comments?slug=hola&id=x", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cookie := login(t, srv, c)
	resp = send(t, c, http.MethodDelete, srv.URL+"/api/comments?slug=hola&id=x", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PublicReads(t *testing.T) {
	srv := newTestServer(t, "")
	c := newClient()

	for _, path := range []string{"/api/hero", "/api/redes", "/api/profile", "/api/author", "/api/biblioteca", "/api/posts", "/health"} {
		resp := send(t, c, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), path)
	}

	resp := send(t, c, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "folio_http_requests_total")
}

func TestRouter_AdminPages(t *testing.T) {
	web := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(web, "admin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(web, "login.html"), []byte("login page"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(web, "admin", "index.html"), []byte("admin home"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(web, "admin", "hero.html"), []byte("admin hero"), 0o600))

	srv := newTestServer(t, web)
	c := newClient()

	resp := send(t, c, http.MethodGet, srv.URL+"/admin/hero", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = send(t, c, http.MethodGet, srv.URL+"/login", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "login page", string(data))

	cookie := login(t, srv, c)

	resp = send(t, c, http.MethodGet, srv.URL+"/login", "", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	for path, want := range map[string]string{"/admin": "admin home", "/admin/hero": "admin hero"} {
		resp = send(t, c, http.MethodGet, srv.URL+path, "", cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		data, _ = io.ReadAll(resp.Body)
		assert.Equal(t, want, string(data), path)
	}
}
