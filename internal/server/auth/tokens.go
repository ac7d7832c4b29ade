// Package auth управляет сессиями администратора: выдачей, проверкой и отзывом токенов.
package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/iudanet/folio/internal/crypto"
	"github.com/iudanet/folio/internal/server/storage"
)

// DefaultMaxSessions число одновременно действующих токенов по умолчанию
const DefaultMaxSessions = 10

// tokensKey документ со списком действующих токенов в порядке выдачи
const tokensKey = "tokens"

// TokenStore выдает, отзывает и проверяет сессионные токены
type TokenStore interface {
	// Issue creates a new valid token
	Issue(ctx context.Context) (string, error)

	// Revoke invalidates token; revoking unknown token is not an error
	Revoke(ctx context.Context, token string) error

	// IsValid reports whether token may be used
	IsValid(ctx context.Context, token string) bool
}

// DigestTokenStore хранит выданные токены (hex HMAC-SHA256) в документе "tokens".
// Токен действителен, если имеет формат 64 hex-символа и присутствует в списке.
// Список ограничен maxSessions: при переполнении вытесняются самые старые.
type DigestTokenStore struct {
	docs        storage.DocumentStore
	now         func() time.Time
	secret      []byte
	maxSessions int
}

// NewDigestTokenStore создает хранилище токенов
func NewDigestTokenStore(docs storage.DocumentStore, secret []byte, maxSessions int) *DigestTokenStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	return &DigestTokenStore{
		docs:        docs,
		secret:      secret,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Issue implements TokenStore
func (s *DigestTokenStore) Issue(ctx context.Context) (string, error) {
	token, err := crypto.NewSessionDigest(s.secret, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = storage.UpdateJSON(ctx, s.docs, tokensKey, []string{}, func(tokens *[]string) error {
		next := append(*tokens, token)
		if len(next) > s.maxSessions {
			next = next[len(next)-s.maxSessions:]
		}
		*tokens = next
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}

	return token, nil
}

// Revoke implements TokenStore
func (s *DigestTokenStore) Revoke(ctx context.Context, token string) error {
	_, err := storage.UpdateJSON(ctx, s.docs, tokensKey, []string{}, func(tokens *[]string) error {
		*tokens = slices.DeleteFunc(*tokens, func(t string) bool {
			return t == token
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsValid implements TokenStore
func (s *DigestTokenStore) IsValid(ctx context.Context, token string) bool {
	if !crypto.IsSessionDigest(token) {
		return false
	}

	tokens, _, err := storage.GetJSON(ctx, s.docs, tokensKey, []string{})
	if err != nil {
		return false
	}

	return slices.Contains(tokens, token)
}

// Tokens возвращает действующие токены в порядке выдачи
func (s *DigestTokenStore) Tokens(ctx context.Context) ([]string, error) {
	tokens, _, err := storage.GetJSON(ctx, s.docs, tokensKey, []string{})
	return tokens, err
}
