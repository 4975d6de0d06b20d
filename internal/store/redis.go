package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Redis is a Store backed by a Redis server. Every slot lives under a fixed
// key prefix so one server can host several engines side by side. SetMulti
// commits through a transactional pipeline (MULTI/EXEC) so all writes of one
// engine operation land atomically.
type Redis struct {
	Client *redis.Client
	Prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "eventx"
	}
	return &Redis{Client: client, Prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.Prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *Redis) SetMulti(ctx context.Context, writes map[string][]byte) error {
	pipe := r.Client.TxPipeline()
	for key, val := range writes {
		pipe.Set(ctx, r.key(key), val, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis commit: %w", err)
	}
	return nil
}

// Ping verifies connectivity at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
