// Package cache stores upstream responses in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const keyPrefix = "hyui:upstream:"

// Redis is a Cache on a Redis server. Keys are namespaced under keyPrefix.
type Redis struct {
	c *redis.Client
}

func NewRedis(c *redis.Client) *Redis { return &Redis{c: c} }

// Dial connects to the server at rawURL (redis://[:password@]host:port/db)
// and checks it answers.
func Dial(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{c: c}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.c.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *Redis) Close() error {
	return r.c.Close()
}
