package cache

import (
	"context"
	"errors"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

// TieredCache reads through a process-local cache in front of a shared one.
// Writes and deletes go to both tiers.
type TieredCache struct {
	local    interfaces.CachePort
	shared   interfaces.CachePort
	localTTL time.Duration
	logger   interfaces.LoggerPort
}

func NewTieredCache(local, shared interfaces.CachePort, localTTL time.Duration, logger interfaces.LoggerPort) *TieredCache {
	return &TieredCache{local: local, shared: shared, localTTL: localTTL, logger: logger}
}

func (t *TieredCache) localExpiration(expiration time.Duration) time.Duration {
	if expiration == 0 || (t.localTTL > 0 && t.localTTL < expiration) {
		return t.localTTL
	}
	return expiration
}

func (t *TieredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := t.local.Get(ctx, key); err == nil {
		cacheHits.WithLabelValues("local").Inc()
		return v, nil
	}

	v, err := t.shared.Get(ctx, key)
	if err != nil {
		if errors.Is(err, utils.ErrCacheMiss) {
			cacheMisses.Inc()
		}
		return nil, err
	}
	cacheHits.WithLabelValues("shared").Inc()

	if err := t.local.Set(ctx, key, v, t.localTTL); err != nil {
		t.logger.WarnWithContext(ctx, "failed to populate local cache",
			interfaces.LogField{Key: "key", Value: key},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	return v, nil
}

func (t *TieredCache) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	result, err := t.local.GetMulti(ctx, keys)
	if err != nil {
		return nil, err
	}
	cacheHits.WithLabelValues("local").Add(float64(len(result)))

	missing := make([]string, 0, len(keys)-len(result))
	for _, key := range keys {
		if _, ok := result[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	shared, err := t.shared.GetMulti(ctx, missing)
	if err != nil {
		return nil, err
	}
	cacheHits.WithLabelValues("shared").Add(float64(len(shared)))
	cacheMisses.Add(float64(len(missing) - len(shared)))

	for key, v := range shared {
		result[key] = v
		_ = t.local.Set(ctx, key, v, t.localTTL)
	}
	return result, nil
}

func (t *TieredCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := t.shared.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return t.local.Set(ctx, key, value, t.localExpiration(expiration))
}

func (t *TieredCache) Delete(ctx context.Context, key string) error {
	_ = t.local.Delete(ctx, key)
	return t.shared.Delete(ctx, key)
}

func (t *TieredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if err := t.local.DeleteByPattern(ctx, pattern); err != nil {
		return err
	}
	return t.shared.DeleteByPattern(ctx, pattern)
}

func (t *TieredCache) Close() error {
	_ = t.local.Close()
	return t.shared.Close()
}

var _ interfaces.CachePort = (*TieredCache)(nil)
