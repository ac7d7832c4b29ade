package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// SessionCookie имя cookie с токеном администратора
const SessionCookie = "admin_token"

// Decision результат проверки доступа
type Decision int

const (
	// Allow пропустить запрос дальше
	Allow Decision = iota
	// RedirectToLogin перенаправить на страницу входа
	RedirectToLogin
	// Reject ответить 401
	Reject
	// RedirectToAdmin перенаправить в админку (уже вошел)
	RedirectToAdmin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case Reject:
		return "reject"
	case RedirectToAdmin:
		return "redirect_to_admin"
	default:
		return "unknown"
	}
}

var (
	publicPrefixes = []string{"/login", "/api/auth", "/api/comments"}

	protectedPrefixes = []string{
		"/api/posts",
		"/api/hero",
		"/api/profile",
		"/api/author",
		"/api/redes",
		"/api/biblioteca",
	}
)

// Decide решает, что делать с запросом. Правила проверяются по порядку:
// публичные пути, пространство /admin, изменяющие запросы к защищенному API.
func Decide(path, method string, authenticated bool) Decision {
	if hasAnyPrefix(path, publicPrefixes) {
		if path == "/login" && authenticated {
			return RedirectToAdmin
		}
		return Allow
	}

	if underPath(path, "/admin") {
		if authenticated {
			return Allow
		}
		return RedirectToLogin
	}

	if hasAnyPrefix(path, protectedPrefixes) && !isReadMethod(method) {
		if authenticated {
			return Allow
		}
		return Reject
	}

	return Allow
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if underPath(path, p) {
			return true
		}
	}
	return false
}

// underPath сравнивает по границе сегмента: /api/auth не покрывает /api/author
func underPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// TokenChecker проверяет токен сессии
type TokenChecker interface {
	Check(ctx context.Context, token string) bool
}

type contextKey string

const authenticatedKey contextKey = "authenticated"

// IsAuthenticated возвращает результат проверки токена, сохраненный GuardMiddleware
func IsAuthenticated(ctx context.Context) bool {
	v, _ := ctx.Value(authenticatedKey).(bool)
	return v
}

// WithAuthenticated сохраняет результат проверки токена в контексте
func WithAuthenticated(ctx context.Context, authenticated bool) context.Context {
	return context.WithValue(ctx, authenticatedKey, authenticated)
}

// GuardMiddleware проверяет cookie сессии один раз на запрос и применяет Decide
func GuardMiddleware(logger *slog.Logger, checker TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authenticated := false
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				authenticated = checker.Check(ctx, c.Value)
			}

			decision := Decide(r.URL.Path, r.Method, authenticated)
			switch decision {
			case RedirectToLogin:
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			case RedirectToAdmin:
				http.Redirect(w, r, "/admin", http.StatusFound)
				return
			case Reject:
				logger.WarnContext(ctx, "unauthorized request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				writeError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthenticated(ctx, authenticated)))
		})
	}
}

// RequireAuth отвечает 401 на запросы без валидной сессии.
// Используется для отдельных маршрутов внутри публичных путей.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			writeError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
