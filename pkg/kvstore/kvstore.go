// Package kvstore provides the durable string key-value surface used to
// persist carts across requests.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/polly-storefront/pkg/config"
	redisclient "github.com/angelmondragon/polly-storefront/pkg/redis"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store reads and writes string values by key. Writes overwrite.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key joins non-empty parts with ":".
func Key(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			clean = append(clean, part)
		}
	}
	return strings.Join(clean, ":")
}

// Open picks the backend named by cfg.Backend.
func Open(cfg config.CartConfig, redis *redisclient.Client, db *gorm.DB) (Store, error) {
	switch cfg.Backend {
	case config.CartBackendRedis:
		if redis == nil {
			return nil, fmt.Errorf("redis client is required for %q cart backend", cfg.Backend)
		}
		return NewRedis(redis), nil
	case config.CartBackendDB:
		if db == nil {
			return nil, fmt.Errorf("database is required for %q cart backend", cfg.Backend)
		}
		return NewSQL(db), nil
	case config.CartBackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.Backend)
	}
}
