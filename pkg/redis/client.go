package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const defaultNamespace = "polly"

// ErrNil is returned by Get when the key does not exist.
var ErrNil = redis.Nil

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client is the storefront's handle on Redis. It backs cart persistence,
// admin access sessions and auth rate limit counters.
type Client struct {
	store     cmdable
	raw       *redis.Client
	namespace string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New dials Redis and fails fast when the server does not answer PING.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"redis_addr": opts.Addr,
			"redis_db":   opts.DB,
		}), "redis connected")
	}
	return &Client{store: raw, raw: raw, namespace: cfg.Namespace}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	// values carried by the URL win over the env fallbacks
	opts.DB = orDefault(opts.DB, cfg.DB)
	opts.PoolSize = orDefault(opts.PoolSize, cfg.PoolSize)
	opts.MinIdleConns = orDefault(opts.MinIdleConns, cfg.MinIdleConns)
	opts.DialTimeout = orDefault(opts.DialTimeout, cfg.DialTimeout)
	opts.ReadTimeout = orDefault(opts.ReadTimeout, cfg.ReadTimeout)
	opts.WriteTimeout = orDefault(opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func orDefault[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

func (c *Client) conn() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

// Set stores value at key. A zero ttl keeps the key forever.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns the string at key, or ErrNil when it is missing.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.conn()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return store.Del(ctx, keys...).Err()
}

// IncrWithTTL bumps the counter at key. The first increment of a window
// also arms the expiry, so the counter resets once ttl elapses.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	store, err := c.conn()
	if err != nil {
		return 0, err
	}
	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		if err := store.Expire(ctx, key, ttl).Err(); err != nil {
			return count, fmt.Errorf("arming ttl on %s: %w", key, err)
		}
	}
	return count, nil
}

func (c *Client) Ping(ctx context.Context) error {
	store, err := c.conn()
	if err != nil {
		return err
	}
	return store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// RateLimitKey namespaces an auth rate limit scope.
func (c *Client) RateLimitKey(scope string) string {
	return c.key("rate_limit", scope)
}

// AccessSessionKey namespaces the session record for an access token id.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.key("session", "access", accessID)
}

func (c *Client) key(parts ...string) string {
	ns := defaultNamespace
	if c != nil {
		if trimmed := strings.TrimSpace(c.namespace); trimmed != "" {
			ns = trimmed
		}
	}
	out := ns
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out += ":" + part
		}
	}
	return out
}
