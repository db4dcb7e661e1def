package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a size bounded in-process cache.
type MemoryCache struct {
	items *lru.Cache[string, memoryEntry]
	now   func() time.Time
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	items, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryCache{items: items, now: time.Now}, nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.items.Get(key)
	if !ok {
		return nil, utils.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.items.Remove(key)
		return nil, utils.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, err := m.Get(ctx, key); err == nil {
			result[key] = v
		}
	}
	return result, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.items.Add(key, entry)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.items.Remove(key)
	return nil
}

// DeleteByPattern accepts the glob syntax of redis SCAN MATCH.
func (m *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	for _, key := range m.items.Keys() {
		if matchPattern(pattern, key) {
			m.items.Remove(key)
		}
	}
	return nil
}

func (m *MemoryCache) Len() int {
	return m.items.Len()
}

func (m *MemoryCache) Close() error {
	m.items.Purge()
	return nil
}

var _ interfaces.CachePort = (*MemoryCache)(nil)
