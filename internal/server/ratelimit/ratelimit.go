// Package ratelimit реализует ограничение частоты запросов с фиксированным окном.
//
// Первый запрос ключа открывает окно длиной window. Запросы внутри окна
// увеличивают счетчик; запрос разрешен, пока счетчик не превышает max,
// т.е. (max+1)-й запрос в окне первым получает отказ.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Limiter решает, разрешен ли очередной запрос для ключа, и учитывает его
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Rule задает лимит: max запросов за window
type Rule struct {
	Max    int
	Window time.Duration
}

// ClientKey извлекает ключ клиента из запроса.
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси.
func ClientKey(r *http.Request) string {
	// Берем первый IP из X-Forwarded-For (реальный клиент)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}

	return "unknown"
}
