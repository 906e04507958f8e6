package cache

import (
	"context"
	"time"
)

// Cache is an advisory read-through layer over the durable stores.
// Losing every entry only costs extra store reads, never correctness.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
