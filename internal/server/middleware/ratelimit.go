package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/folio/internal/server/ratelimit"
)

// RateLimitMiddleware ограничивает частоту запросов с одного клиента.
// Ключ клиента берется из ratelimit.ClientKey; превышение дает 429.
// Ошибка хранилища лимитера не блокирует запрос.
func RateLimitMiddleware(logger *slog.Logger, limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := ratelimit.ClientKey(r)

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				logger.ErrorContext(ctx, "rate limiter failed", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.WarnContext(ctx, "rate limit exceeded",
					slog.String("client", key),
					slog.String("path", r.URL.Path))
				writeError(w, "too many requests, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
