package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisFixedWindow хранит счетчики в Redis, общие для всех экземпляров сервиса.
// Окно открывается первым INCR ключа и закрывается истечением TTL.
type RedisFixedWindow struct {
	rdb    redis.UniversalClient
	prefix string
	rule   Rule
}

// NewRedisFixedWindow создает limiter поверх клиента Redis.
// prefix отделяет счетчики разных лимитов ("folio:rl:login:").
func NewRedisFixedWindow(rdb redis.UniversalClient, prefix string, rule Rule) (*RedisFixedWindow, error) {
	if rule.Max <= 0 || rule.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit rule: max=%d window=%s", rule.Max, rule.Window)
	}
	if prefix == "" {
		prefix = "folio:rl:"
	}

	return &RedisFixedWindow{
		rdb:    rdb,
		prefix: prefix,
		rule:   rule,
	}, nil
}

// Allow implements Limiter
func (l *RedisFixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err := l.rdb.PExpire(ctx, k, l.rule.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to set counter ttl: %w", err)
		}
		return true, nil
	}

	allowed := count <= int64(l.rule.Max)
	if !allowed {
		// Счетчик без TTL (сбой между INCR и PEXPIRE) заблокировал бы ключ навсегда
		ttl, err := l.rdb.PTTL(ctx, k).Result()
		if err != nil {
			return false, fmt.Errorf("failed to read counter ttl: %w", err)
		}
		if ttl < 0 {
			if err := l.rdb.PExpire(ctx, k, l.rule.Window).Err(); err != nil {
				return false, fmt.Errorf("failed to set counter ttl: %w", err)
			}
		}
	}

	return allowed, nil
}
