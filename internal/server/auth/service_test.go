package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/folio/internal/server/ratelimit"
)

// mockTokenStore is a mock implementation of TokenStore for testing
type mockTokenStore struct {
	valid      map[string]bool
	issueError error
	issued     int
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{valid: make(map[string]bool)}
}

func (m *mockTokenStore) Issue(ctx context.Context) (string, error) {
	if m.issueError != nil {
		return "", m.issueError
	}
	m.issued++
	token := "token-" + string(rune('a'+m.issued))
	m.valid[token] = true
	return token, nil
}

func (m *mockTokenStore) Revoke(ctx context.Context, token string) error {
	delete(m.valid, token)
	return nil
}

func (m *mockTokenStore) IsValid(ctx context.Context, token string) bool {
	return m.valid[token]
}

// mockLimiter is a mock implementation of ratelimit.Limiter
type mockLimiter struct {
	err     error
	allowed bool
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return m.allowed, m.err
}

func newTestService(t *testing.T, tokens TokenStore, limiter ratelimit.Limiter) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, tokens, limiter, Credentials{Password: "correct"})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		limiter  *mockLimiter
		issueErr error
		password string
		wantErr  error
		anyErr   bool
	}{
		{name: "success", limiter: &mockLimiter{allowed: true}, password: "correct"},
		{name: "wrong password", limiter: &mockLimiter{allowed: true}, password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "rate limited even with correct password", limiter: &mockLimiter{allowed: false}, password: "correct", wantErr: ErrRateLimited},
		{name: "limiter failure", limiter: &mockLimiter{err: errors.New("redis down")}, password: "correct", anyErr: true},
		{name: "issue failure", limiter: &mockLimiter{allowed: true}, issueErr: errors.New("disk full"), password: "correct", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newMockTokenStore()
			tokens.issueError = tt.issueErr
			s := newTestService(t, tokens, tt.limiter)

			token, err := s.Login(ctx, "10.0.0.1", tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.True(t, s.Check(ctx, token))
			}
		})
	}
}

func TestService_LoginRateLimitScenario(t *testing.T) {
	ctx := context.Background()

	limiter, err := ratelimit.NewFixedWindow(ratelimit.Rule{Max: 5, Window: 15 * time.Minute}, 0)
	require.NoError(t, err)
	s := newTestService(t, newMockTokenStore(), limiter)

	for i := 0; i < 5; i++ {
		_, err := s.Login(ctx, "10.0.0.1", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i+1)
	}

	_, err = s.Login(ctx, "10.0.0.1", "wrong")
	assert.ErrorIs(t, err, ErrRateLimited)

	// Другой клиент не затронут
	_, err = s.Login(ctx, "10.0.0.2", "correct")
	assert.NoError(t, err)
}

func TestService_LogoutAndCheck(t *testing.T) {
	ctx := context.Background()
	tokens := newMockTokenStore()
	s := newTestService(t, tokens, &mockLimiter{allowed: true})

	token, err := s.Login(ctx, "10.0.0.1", "correct")
	require.NoError(t, err)
	assert.True(t, s.Check(ctx, token))

	require.NoError(t, s.Logout(ctx, token))
	assert.False(t, s.Check(ctx, token))

	// Logout идемпотентен
	require.NoError(t, s.Logout(ctx, token))
	require.NoError(t, s.Logout(ctx, ""))
	assert.False(t, s.Check(ctx, ""))
}
