package oauth2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisStatePrefix = "mlhauth:state:"

var _ StateStore = &RedisStateStore{}

// RedisStateStore shares issued states across instances. Validation uses
// GETDEL so a state can only be consumed once even under concurrent
// callbacks. Requires Redis 6.2 or later.
type RedisStateStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore accepts any go-redis client (single node, cluster,
// ring). Empty prefix and non-positive ttl select the defaults.
func NewRedisStateStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisStateStore {
	if prefix == "" {
		prefix = DefaultRedisStatePrefix
	}
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &RedisStateStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStateStore) key(state string) string { return s.prefix + state }

func (s *RedisStateStore) Store(ctx context.Context, state string) error {
	if err := s.rdb.Set(ctx, s.key(state), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("redis state store: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Validate(ctx context.Context, state string) (bool, error) {
	_, err := s.rdb.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis state store: %w", err)
	}
	return true, nil
}
