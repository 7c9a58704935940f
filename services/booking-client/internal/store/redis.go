package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces the keys, e.g. "salon:session:alice:".
	Prefix string
}

// Redis shares one session between several terminals or kiosks.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis address required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "salon:session:"
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Set uses a single MSET, which Redis applies atomically.
func (r *Redis) Set(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		pairs = append(pairs, r.key(k), v)
	}
	return r.rdb.MSet(ctx, pairs...).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	return r.rdb.Del(ctx, full...).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
