package ports

import (
	"context"
	"time"
)

// Cache is a small key-value store for best-effort state such as the last import summary.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
