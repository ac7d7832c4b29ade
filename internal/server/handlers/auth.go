package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/folio/internal/server/auth"
	"github.com/iudanet/folio/internal/server/middleware"
	"github.com/iudanet/folio/internal/server/ratelimit"
	"github.com/iudanet/folio/pkg/api"
)

// DefaultSessionMaxAge время жизни cookie сессии
const DefaultSessionMaxAge = 7 * 24 * time.Hour

// Authenticator вход, выход и проверка сессии администратора
type Authenticator interface {
	Login(ctx context.Context, key, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Check(ctx context.Context, token string) bool
}

// CookieConfig параметры cookie сессии
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// AuthHandler обрабатывает /api/auth
type AuthHandler struct {
	responder
	auth   Authenticator
	cookie CookieConfig
}

// NewAuthHandler создает handler авторизации
func NewAuthHandler(logger *slog.Logger, authenticator Authenticator, cookie CookieConfig) *AuthHandler {
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = DefaultSessionMaxAge
	}
	return &AuthHandler{
		responder: responder{logger: logger},
		auth:      authenticator,
		cookie:    cookie,
	}
}

// Login обрабатывает POST /api/auth
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(ctx, ratelimit.ClientKey(r), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			h.sendError(w, "too many login attempts, try again later", http.StatusTooManyRequests)
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.sendError(w, "invalid password", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "login failed", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.cookie.MaxAge.Seconds())))
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}

// Logout обрабатывает DELETE /api/auth
// Cookie очищается даже если токен уже недействителен
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if c, err := r.Cookie(middleware.SessionCookie); err == nil && c.Value != "" {
		if err := h.auth.Logout(ctx, c.Value); err != nil {
			h.logger.ErrorContext(ctx, "failed to revoke session", slog.Any("error", err))
			h.sendError(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	h.sendJSON(w, api.SuccessResponse{Success: true}, http.StatusOK)
}

// Status обрабатывает GET /api/auth
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAuthenticated(r.Context()) {
		h.sendJSON(w, api.AuthStatus{Authenticated: false}, http.StatusUnauthorized)
		return
	}
	h.sendJSON(w, api.AuthStatus{Authenticated: true}, http.StatusOK)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
