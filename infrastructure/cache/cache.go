// Package cache implements the YouTube response cache on top of a
// pluggable key-value backend.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"viewtrap/domain/dto"
	"viewtrap/domain/repository"
	"viewtrap/infrastructure/logger"
	"viewtrap/infrastructure/utils"
)

// DefaultExpiryMargin is added to the TTL for the backend's physical expiry
// so a store-side eviction never precedes the logical one.
const DefaultExpiryMargin = 60 * time.Second

// entry is the stored envelope. Expiry is computed from CreatedAt and
// TTLSeconds at read time.
type entry struct {
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  int64           `json:"createdAt"`
	TTLSeconds int64           `json:"ttlSeconds"`
}

func (e entry) expired(now time.Time) bool {
	return now.UnixMilli()-e.CreatedAt > e.TTLSeconds*1000
}

// Options configures a Store.
type Options struct {
	ExpiryMargin time.Duration
	Environment  string
	Now          func() time.Time
}

// Store implements repository.IYouTubeCache.
type Store struct {
	backend      repository.ICacheBackend
	expiryMargin time.Duration
	environment  string
	now          func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewStore creates a Store over backend.
func NewStore(backend repository.ICacheBackend, opts Options) *Store {
	if opts.ExpiryMargin <= 0 {
		opts.ExpiryMargin = DefaultExpiryMargin
	}
	if opts.Now == nil {
		opts.Now = utils.GetCurrentTime
	}
	return &Store{
		backend:      backend,
		expiryMargin: opts.ExpiryMargin,
		environment:  opts.Environment,
		now:          opts.Now,
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() repository.ICacheBackend { return s.backend }

func (s *Store) Get(ctx context.Context, params dto.CacheParams, dest interface{}) bool {
	key := Key(params)
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{"cacheKey": key, "backend": s.backend.Name()})

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		log.WithField("error", err).Warn("Cache GET error")
		s.misses.Add(1)
		return false
	}
	if raw == nil {
		log.Debug("Cache MISS")
		s.misses.Add(1)
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		log.WithField("error", err).Warn("Cache entry unreadable, purging")
		s.purge(ctx, key)
		s.misses.Add(1)
		return false
	}
	if e.expired(s.now()) {
		log.Debug("Cache EXPIRED")
		s.purge(ctx, key)
		s.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(e.Payload, dest); err != nil {
		log.WithField("error", err).Warn("Cache payload does not match destination")
		s.misses.Add(1)
		return false
	}

	log.Debug("Cache HIT")
	s.hits.Add(1)
	return true
}

func (s *Store) Set(ctx context.Context, params dto.CacheParams, value interface{}, ttl time.Duration) {
	key := Key(params)
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{"cacheKey": key, "backend": s.backend.Name()})

	payload, err := json.Marshal(value)
	if err != nil {
		log.WithField("error", err).Warn("Cache SET skipped, value not encodable")
		return
	}
	raw, err := json.Marshal(entry{
		Payload:    payload,
		CreatedAt:  s.now().UnixMilli(),
		TTLSeconds: int64(ttl / time.Second),
	})
	if err != nil {
		log.WithField("error", err).Warn("Cache SET skipped, envelope not encodable")
		return
	}
	if err := s.backend.Set(ctx, key, raw, ttl+s.expiryMargin); err != nil {
		log.WithField("error", err).Warn("Cache SET error")
		return
	}
	s.sets.Add(1)
	log.WithField("ttl", ttl.String()).Debug("Cache SET")
}

func (s *Store) Delete(ctx context.Context, params dto.CacheParams) {
	s.purge(ctx, Key(params))
}

func (s *Store) purge(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).WithFields(map[string]interface{}{"cacheKey": key, "error": err}).Warn("Cache DELETE error")
	}
}

func (s *Store) Stats(ctx context.Context) dto.CacheStats {
	stats := dto.CacheStats{
		Backend:     s.backend.Name(),
		KVAvailable: s.backend.Name() != "memory",
		MemoryCache: s.backend.Name() == "memory",
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Sets:        s.sets.Load(),
		Environment: s.environment,
	}
	if size, err := s.backend.Len(ctx); err == nil {
		stats.Size = size
	} else {
		logger.FromContext(ctx).WithField("error", err).Warn("Cache size unavailable")
	}
	if bounded, ok := s.backend.(interface{ Capacity() int }); ok {
		stats.Capacity = bounded.Capacity()
	}
	return stats
}

// Ping checks backend connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
