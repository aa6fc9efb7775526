package cache

import (
	"context"
	"time"
)

// Cache is a read-through store for raw upstream responses. Values are
// opaque bytes so cached payloads survive changes to normalization logic.
// A cache miss is never an error; the cache is an optimization only.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
