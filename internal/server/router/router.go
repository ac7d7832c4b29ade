// Package router собирает HTTP API на chi.
package router

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/folio/internal/models"
	"github.com/iudanet/folio/internal/server/handlers"
	"github.com/iudanet/folio/internal/server/middleware"
	"github.com/iudanet/folio/internal/server/ratelimit"
)

// Handlers обработчики всех маршрутов
type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Posts    *handlers.PostsHandler
	Comments *handlers.CommentsHandler
	Library  *handlers.LibraryHandler
	Profile  *handlers.ProfileHandler
	Hero     *handlers.CollectionHandler[models.HeroSlide, *models.HeroSlide]
	Social   *handlers.CollectionHandler[models.SocialLink, *models.SocialLink]
}

// Options параметры сборки роутера
type Options struct {
	Logger          *slog.Logger
	Checker         middleware.TokenChecker
	CommentsLimiter ratelimit.Limiter
	// Registry nil отключает /metrics
	Registry       *prometheus.Registry
	AllowedOrigins []string
	// WebDir каталог со страницами admin и login; пустой отключает раздачу
	WebDir string
}

// New собирает http.Handler со всеми middleware и маршрутами
func New(h Handlers, opts Options) (http.Handler, error) {
	r := chi.NewRouter()

	// Middleware (внешний -> внутренний)
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RecoveryMiddleware(opts.Logger),
		middleware.LoggingMiddleware(opts.Logger, "/health", "/metrics"),
	)

	if opts.Registry != nil {
		m, err := middleware.NewMetrics(opts.Registry)
		if err != nil {
			return nil, err
		}
		r.Use(m.Middleware)
	}

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(middleware.GuardMiddleware(opts.Logger, opts.Checker))

	r.Get("/health", h.Health.Health)
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/", h.Auth.Status)
			r.Post("/", h.Auth.Login)
			r.Delete("/", h.Auth.Logout)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.Posts.List)
			r.Get("/tags", h.Posts.Tags)
			r.Get("/categories", h.Posts.Categories)
			r.Post("/", h.Posts.Create)
			r.Put("/", h.Posts.Update)
			r.Delete("/", h.Posts.Delete)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", h.Comments.List)
			r.With(middleware.RateLimitMiddleware(opts.Logger, opts.CommentsLimiter)).Post("/", h.Comments.Create)
			r.With(middleware.RequireAuth).Delete("/", h.Comments.Delete)
		})

		r.Route("/hero", func(r chi.Router) {
			r.Get("/", h.Hero.List)
			r.Post("/", h.Hero.Create)
			r.Put("/", h.Hero.Update)
			r.Delete("/", h.Hero.Delete)
		})

		r.Route("/redes", func(r chi.Router) {
			r.Get("/", h.Social.List)
			r.Post("/", h.Social.Create)
			r.Put("/", h.Social.Update)
			r.Delete("/", h.Social.Delete)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.Profile.Get)
			r.Put("/", h.Profile.Update)
			r.Post("/", h.Profile.AddSlide)
			r.Delete("/", h.Profile.RemoveSlide)
		})

		r.Route("/author", func(r chi.Router) {
			r.Get("/", h.Profile.Author)
			r.Put("/", h.Profile.UpdateAuthor)
		})

		r.Route("/biblioteca", func(r chi.Router) {
			r.Get("/", h.Library.List)
			r.Post("/", h.Library.Create)
			r.Delete("/", h.Library.Delete)
		})
	})

	if opts.WebDir != "" {
		pages := pagesHandler(opts.WebDir)
		r.Get("/login", pages)
		r.Get("/admin", pages)
		r.Get("/admin/*", pages)
	}

	return r, nil
}

// pagesHandler раздает страницы из dir: /admin/hero -> dir/admin/hero.html
// или dir/admin/hero/index.html, остальные файлы как есть.
func pagesHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Clean("/" + strings.TrimSuffix(r.URL.Path, "/"))
		for _, candidate := range []string{clean + ".html", filepath.Join(clean, "index.html")} {
			full := filepath.Join(dir, filepath.FromSlash(candidate))
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				http.ServeFile(w, r, full)
				return
			}
		}
		files.ServeHTTP(w, r)
	}
}
