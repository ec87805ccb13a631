package api

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rotisserie/eris"
)

var errCacheMiss = eris.New("cache miss")

// MemoryCache is an in-process CacheAdaptor.
type MemoryCache struct {
	store *cache.Cache
}

func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	value, found := m.store.Get(key)
	if !found {
		return "", errCacheMiss
	}
	return value.(string), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}
