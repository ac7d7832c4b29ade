package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/folio/internal/server/storage"
)

// revokedKey документ со списком отозванных jti
const revokedKey = "revoked-sessions"

const issuer = "folio"

// revocation запись об отозванном токене; хранится до истечения токена
type revocation struct {
	ExpiresAt time.Time `json:"exp"`
	JTI       string    `json:"jti"`
}

// SignedTokenStore выдает самопроверяемые JWT (HS256).
// Поддельный или просроченный токен отклоняется без обращения к хранилищу,
// хранится только список отозванных до истечения срока jti.
type SignedTokenStore struct {
	docs   storage.DocumentStore
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewSignedTokenStore создает хранилище подписанных токенов
func NewSignedTokenStore(docs storage.DocumentStore, secret []byte, ttl time.Duration) *SignedTokenStore {
	return &SignedTokenStore{
		docs:   docs,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue implements TokenStore
func (s *SignedTokenStore) Issue(ctx context.Context) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("token secret cannot be empty")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "admin",
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Revoke implements TokenStore
func (s *SignedTokenStore) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// Невалидный или просроченный токен и так не пройдет проверку
		return nil
	}

	_, err = storage.UpdateJSON(ctx, s.docs, revokedKey, []revocation{}, func(list *[]revocation) error {
		if slices.ContainsFunc(*list, func(r revocation) bool { return r.JTI == claims.ID }) {
			return nil
		}
		*list = append(*list, revocation{JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsValid implements TokenStore
func (s *SignedTokenStore) IsValid(ctx context.Context, token string) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}

	list, _, err := storage.GetJSON(ctx, s.docs, revokedKey, []revocation{})
	if err != nil {
		return false
	}

	return !slices.ContainsFunc(list, func(r revocation) bool {
		return r.JTI == claims.ID
	})
}

// PruneRevoked удаляет из списка отзыва записи об уже истекших токенах.
// Возвращает количество удаленных записей.
func (s *SignedTokenStore) PruneRevoked(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0

	_, err := storage.UpdateJSON(ctx, s.docs, revokedKey, []revocation{}, func(list *[]revocation) error {
		before := len(*list)
		*list = slices.DeleteFunc(*list, func(r revocation) bool {
			return !r.ExpiresAt.After(now)
		})
		removed = before - len(*list)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked sessions: %w", err)
	}

	return removed, nil
}

func (s *SignedTokenStore) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
