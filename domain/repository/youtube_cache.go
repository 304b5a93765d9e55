package repository

import (
	"context"
	"time"

	"viewtrap/domain/dto"
)

// IYouTubeCache is a typed response cache addressed by operation parameters.
// It never reports backend failures: reads degrade to a miss, writes to a no-op.
type IYouTubeCache interface {
	// Get decodes the cached value for params into dest and reports whether it was found.
	Get(ctx context.Context, params dto.CacheParams, dest interface{}) bool
	Set(ctx context.Context, params dto.CacheParams, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, params dto.CacheParams)
	Stats(ctx context.Context) dto.CacheStats
}

// ICacheBackend stores opaque cache envelopes by key.
type ICacheBackend interface {
	Name() string
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
