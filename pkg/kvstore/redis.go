package kvstore

import (
	"context"
	"errors"
	"time"

	redisclient "github.com/angelmondragon/polly-storefront/pkg/redis"
)

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Redis stores values in Redis without expiry.
type Redis struct {
	client redisStore
}

func NewRedis(client redisStore) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key)
	if errors.Is(err, redisclient.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key)
}
