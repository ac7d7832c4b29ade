package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/folio/internal/crypto"
	"github.com/iudanet/folio/internal/server/ratelimit"
)

// Credentials пароль администратора: bcrypt хеш имеет приоритет над открытым паролем
type Credentials struct {
	PasswordHash string
	Password     string
}

// Service реализует вход и выход администратора
type Service struct {
	logger  *slog.Logger
	tokens  TokenStore
	limiter ratelimit.Limiter
	creds   Credentials
}

// NewService создает сервис аутентификации
func NewService(logger *slog.Logger, tokens TokenStore, limiter ratelimit.Limiter, creds Credentials) *Service {
	return &Service{
		logger:  logger,
		tokens:  tokens,
		limiter: limiter,
		creds:   creds,
	}
}

// Login проверяет лимит попыток для key и пароль, затем выдает токен.
// Каждая попытка учитывается лимитом, в том числе успешная.
func (s *Service) Login(ctx context.Context, key, password string) (string, error) {
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		s.logger.WarnContext(ctx, "login rate limit exceeded", slog.String("client", key))
		return "", ErrRateLimited
	}

	if err := crypto.VerifyPassword(password, s.creds.PasswordHash, s.creds.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.WarnContext(ctx, "login failed: invalid password", slog.String("client", key))
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.tokens.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", slog.String("client", key))
	return token, nil
}

// Logout отзывает токен; повторный выход не считается ошибкой
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged out")
	return nil
}

// Check сообщает, действителен ли токен
func (s *Service) Check(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	return s.tokens.IsValid(ctx, token)
}
