package storage

import (
	"context"
	"strings"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisNamespace = "foodapp"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisStore keeps values in Redis under a per-namespace key prefix, so
// several clients (one per end user, say) can share one server.
type RedisStore struct {
	store  cmdable
	raw    *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis at url and verifies connectivity.
// namespace separates this client's keys from others on the same server.
func NewRedisStore(ctx context.Context, url, namespace string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return &RedisStore{store: raw, raw: raw, prefix: buildKey(redisNamespace, namespace)}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to get %s", key)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to set %s", key)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, key)
}

func (s *RedisStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}

	if err := s.store.Del(ctx, full...).Err(); err != nil {
		return errors.Wrapf(err, "failed to remove %v", keys)
	}
	return nil
}

// Ping verifies the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available
func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}

func (s *RedisStore) key(k string) string {
	return buildKey(s.prefix, k)
}

func buildKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
