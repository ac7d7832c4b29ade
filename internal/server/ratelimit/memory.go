package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxKeys ограничивает число отслеживаемых ключей в памяти
const DefaultMaxKeys = 10000

type entry struct {
	resetAt time.Time
	count   int
}

// FixedWindow хранит счетчики в памяти процесса.
// Самые давно использованные ключи вытесняются при превышении maxKeys.
// Счетчики не разделяются между экземплярами сервиса, для этого есть RedisFixedWindow.
type FixedWindow struct {
	entries *lru.Cache[string, *entry]
	now     func() time.Time
	rule    Rule
	mu      sync.Mutex
}

// NewFixedWindow создает limiter в памяти
func NewFixedWindow(rule Rule, maxKeys int) (*FixedWindow, error) {
	if rule.Max <= 0 || rule.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit rule: max=%d window=%s", rule.Max, rule.Window)
	}
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	cache, err := lru.New[string, *entry](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}

	return &FixedWindow{
		entries: cache,
		rule:    rule,
		now:     time.Now,
	}, nil
}

// Allow implements Limiter
func (l *FixedWindow) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries.Get(key)
	if !ok || now.After(e.resetAt) {
		l.entries.Add(key, &entry{count: 1, resetAt: now.Add(l.rule.Window)})
		return true, nil
	}

	e.count++
	return e.count <= l.rule.Max, nil
}

// Len возвращает число отслеживаемых ключей
func (l *FixedWindow) Len() int {
	return l.entries.Len()
}
