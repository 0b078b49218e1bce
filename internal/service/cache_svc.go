package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mathieu-neron/tubestats/internal/metrics"
)

const (
	// FetchCacheTTL bounds how long an upstream result is reused.
	FetchCacheTTL = time.Hour

	defaultMemoryEntries = 512
	redisKeyPrefix       = "tubestats:"
)

// CacheBackend stores opaque cache payloads. Freshness is decided by the
// FetchCache, not by the backend; the ttl passed to Set is only a hint for
// eviction.
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// cacheEnvelope records when the payload was produced.
type cacheEnvelope struct {
	StoredAt time.Time       `json:"storedAt"`
	Payload  json.RawMessage `json:"payload"`
}

// FetchCache memoizes upstream fetches per query signature for a fixed TTL.
// Expiry is whole-entry: a stale entry is refetched and replaced, never
// partially reused. Failed fetches are not cached.
type FetchCache struct {
	backend CacheBackend
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// FetchCacheOption customises a FetchCache.
type FetchCacheOption func(*FetchCache)

// WithClock injects the time source used to stamp and expire entries.
func WithClock(now func() time.Time) FetchCacheOption {
	return func(c *FetchCache) { c.now = now }
}

// WithTTL overrides FetchCacheTTL.
func WithTTL(ttl time.Duration) FetchCacheOption {
	return func(c *FetchCache) { c.ttl = ttl }
}

// WithCacheLogger attaches a logger.
func WithCacheLogger(l zerolog.Logger) FetchCacheOption {
	return func(c *FetchCache) { c.log = l }
}

// NewFetchCache creates a cache over the given backend.
func NewFetchCache(backend CacheBackend, opts ...FetchCacheOption) *FetchCache {
	c := &FetchCache{
		backend: backend,
		ttl:     FetchCacheTTL,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close releases the backend.
func (c *FetchCache) Close() error {
	if c == nil || c.backend == nil {
		return nil
	}
	return c.backend.Close()
}

// lookup returns the cached payload for key if it is still fresh.
func (c *FetchCache) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: get error")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry")
		return nil, false
	}
	if c.now().Sub(env.StoredAt) >= c.ttl {
		return nil, false
	}
	return env.Payload, true
}

func (c *FetchCache) store(ctx context.Context, key string, storedAt time.Time, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: encode error")
		return
	}
	data, err := json.Marshal(cacheEnvelope{StoredAt: storedAt, Payload: payload})
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache: set error")
	}
}

// Fetch returns the cached value for key, or calls load and caches its
// result. The entry's lifetime starts at the time of the producing call.
// A nil cache always calls load.
func Fetch[T any](ctx context.Context, c *FetchCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.backend == nil {
		return load(ctx)
	}

	if payload, ok := c.lookup(ctx, key); ok {
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			metrics.CacheHit()
			return v, nil
		}
	}
	metrics.CacheMiss()

	startedAt := c.now()
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.store(ctx, key, startedAt, v)
	return v, nil
}

// MemoryBackend is a bounded in-process backend.
type MemoryBackend struct {
	entries *lru.Cache[string, []byte]
}

// NewMemoryBackend creates a backend holding at most size entries.
func NewMemoryBackend(size int) (*MemoryBackend, error) {
	if size <= 0 {
		size = defaultMemoryEntries
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	return &MemoryBackend{entries: entries}, nil
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries.Get(key)
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.entries.Add(key, value)
	return nil
}

// Len reports the number of stored entries.
func (m *MemoryBackend) Len() int {
	return m.entries.Len()
}

func (m *MemoryBackend) Close() error {
	m.entries.Purge()
	return nil
}

// RedisBackend shares the fetch cache between processes through Redis.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend connects to redisURL. It returns an error when the URL is
// invalid or the server does not answer a ping, so the caller can fall back
// to a MemoryBackend.
func NewRedisBackend(ctx context.Context, redisURL string) (*RedisBackend, error) {
	if redisURL == "" {
		return nil, errors.New("redis: no URL configured")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: connection failed: %w", err)
	}
	return &RedisBackend{rdb: rdb}, nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks).
func (r *RedisBackend) Client() *redis.Client {
	return r.rdb
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}
