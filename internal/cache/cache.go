package cache

import (
	"context"
	"time"
)

// Cache is a flat TTL cache for aggregate statistics. There is no
// invalidation on writes; staleness up to the TTL is accepted.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
