package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"

	"solsight/internal/adapters/config"
	"solsight/internal/metrics"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

// maxPlainKey is the longest key kept verbatim; longer keys are hashed
const maxPlainKey = 128

// Store is the key-value backend. *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Stats is a snapshot of cache activity since start
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Errors int64 `json:"errors"`
}

// ResponseCache caches successful upstream payloads for a fixed TTL.
// A nil or disabled cache passes every call through to the fetcher.
type ResponseCache struct {
	config config.CacheConfig
	store  Store
	log    *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	errors atomic.Int64
}

// New creates a response cache on top of store
func New(cfg config.CacheConfig, store Store, log *logger.Logger) *ResponseCache {
	return &ResponseCache{
		config: cfg,
		store:  store,
		log:    log.Component("response_cache"),
	}
}

// Enabled reports whether lookups reach the store
func (c *ResponseCache) Enabled() bool {
	return c != nil && c.config.Enabled && c.store != nil
}

// Stats returns current counters
func (c *ResponseCache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
		Errors: c.errors.Load(),
	}
}

// Key builds the storage key for namespace and id
func (c *ResponseCache) Key(namespace string, parts ...string) string {
	id := strings.Join(parts, ":")
	if len(id) > maxPlainKey {
		sum := sha256.Sum256([]byte(id))
		id = hex.EncodeToString(sum[:])
	}

	prefix := c.config.Prefix
	if prefix == "" {
		return namespace + ":" + id
	}
	return prefix + ":" + namespace + ":" + id
}

// Remember returns the cached value for key or calls fetch. Only OK results
// are stored; store failures are logged and never surface to the caller.
func Remember[T any](
	ctx context.Context,
	c *ResponseCache,
	namespace string,
	key []string,
	fetch func(ctx context.Context) upstream.Result[T],
) upstream.Result[T] {
	if !c.Enabled() {
		return fetch(ctx)
	}

	k := c.Key(namespace, key...)

	var cached T
	found, err := c.store.Get(ctx, k, &cached)
	switch {
	case err != nil:
		c.errors.Add(1)
		metrics.RecordCacheLookup(namespace, "error")
		c.log.Warnw("Cache read failed", "key", k, "error", err)
	case found:
		c.hits.Add(1)
		metrics.RecordCacheLookup(namespace, "hit")
		c.log.Debugw("Cache hit", "key", k)
		return upstream.OK(cached)
	default:
		c.misses.Add(1)
		metrics.RecordCacheLookup(namespace, "miss")
	}

	res := fetch(ctx)
	if !res.IsOK() {
		return res
	}

	if err := c.store.Set(ctx, k, res.Value, c.config.TTL); err != nil {
		c.errors.Add(1)
		c.log.Warnw("Cache write failed", "key", k, "error", err)
		return res
	}

	c.sets.Add(1)
	c.log.Debugw("Cache set", "key", k, "ttl", c.config.TTL)
	return res
}
