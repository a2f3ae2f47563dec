package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// hashClient is the part of the Redis client the registry uses.
type hashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisOptions configures a Redis registry.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Key is the hash whose fields are nids and whose values are names.
	Key string
}

// Redis looks shelf names up in a Redis hash on every call, so names edited
// in Redis show up on the next detection run.
type Redis struct {
	client hashClient
	key    string
}

// NewRedis creates a registry over a new Redis client. It does not connect
// until the first command.
func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Redis{client: client, key: opts.Key}
}

// Lookup reads field nid of the registry hash.
func (r *Redis) Lookup(ctx context.Context, nid string) (string, bool, error) {
	name, err := r.client.HGet(ctx, r.key, nid).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis lookup %s/%s: %w", r.key, nid, err)
	}
	return name, true, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
