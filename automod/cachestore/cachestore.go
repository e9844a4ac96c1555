package cachestore

import (
	"context"
)

type CacheStore[V any] interface {
	// Returns the stored value and true, or the zero value and false on a miss.
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, val V) error
	Purge(ctx context.Context, key string) error
}
