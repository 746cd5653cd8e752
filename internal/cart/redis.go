package cart

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultRedisPrefix = "mymat:"
	DefaultRedisTTL    = 30 * 24 * time.Hour
)

// RedisStorage keeps carts in Redis so several server replicas share them.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisStorage)

// WithPrefix sets the key prefix (default DefaultRedisPrefix).
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStorage) { s.prefix = prefix }
}

// WithTTL sets how long an untouched cart survives (default DefaultRedisTTL, 0 = forever).
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStorage) { s.ttl = ttl }
}

func NewRedisStorage(client *redis.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{client: client, prefix: DefaultRedisPrefix, ttl: DefaultRedisTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}
