package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hostly/infras/otel"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	otel    otel.Otel
	now     func() time.Time
}

// NewMemoryCache keeps values in process. Expired entries are dropped lazily on read.
func NewMemoryCache(ot otel.Otel) Cache {
	return &memoryCache{
		entries: map[string]entry{},
		otel:    ot,
		now:     time.Now,
	}
}

// Save implements Cache.
func (cache *memoryCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err := encode(value)
	if err != nil {
		return err
	}

	item := entry{value: raw}
	if duration > 0 {
		item.expiresAt = cache.now().Add(time.Duration(duration) * time.Second)
	}

	cache.mu.Lock()
	cache.entries[key] = item
	cache.mu.Unlock()

	return nil
}

// Get implements Cache.
func (cache *memoryCache) Get(ctx context.Context, key string, value any) error {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cache.mu.RLock()
	item, ok := cache.entries[key]
	cache.mu.RUnlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", Nil)
	}

	if !item.expiresAt.IsZero() && cache.now().After(item.expiresAt) {
		cache.mu.Lock()
		delete(cache.entries, key)
		cache.mu.Unlock()

		return fmt.Errorf("failed to get cache value: %w", Nil)
	}

	return decode(string(item.value), value)
}

// Delete implements Cache.
func (cache *memoryCache) Delete(ctx context.Context, key string) error {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()

	cache.mu.Lock()
	delete(cache.entries, key)
	cache.mu.Unlock()

	return nil
}

// Clear implements Cache.
func (cache *memoryCache) Clear(ctx context.Context, prefix string) error {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, prefix)

	prefix = strings.TrimSuffix(prefix, "*")

	cache.mu.Lock()
	defer cache.mu.Unlock()

	for key := range cache.entries {
		if strings.HasPrefix(key, prefix) {
			delete(cache.entries, key)
		}
	}

	return nil
}

// Increment implements Cache.
func (cache *memoryCache) Increment(ctx context.Context, key string, window int) (int64, time.Duration, error) {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Increment")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	now := cache.now()

	cache.mu.Lock()
	defer cache.mu.Unlock()

	item, ok := cache.entries[key]
	if !ok || (!item.expiresAt.IsZero() && now.After(item.expiresAt)) {
		item = entry{value: []byte("0")}
		if window > 0 {
			item.expiresAt = now.Add(time.Duration(window) * time.Second)
		}
	}

	count, err := strconv.ParseInt(string(item.value), 10, 64)
	if err != nil {
		scope.TraceError(err)

		return 0, 0, fmt.Errorf("cache value at %s is not a counter: %w", key, err)
	}

	count++
	item.value = []byte(strconv.FormatInt(count, 10))
	cache.entries[key] = item

	var ttl time.Duration
	if !item.expiresAt.IsZero() {
		ttl = item.expiresAt.Sub(now)
	}

	return count, ttl, nil
}
