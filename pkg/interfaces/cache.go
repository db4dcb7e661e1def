package interfaces

import (
	"context"
	"time"
)

// CachePort определяет интерфейс байтового key/value кэша.
// Если ключ не найден, реализации возвращают utils.ErrCacheMiss.
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение; если expiration равно 0, срок действия не устанавливается.
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	Delete(ctx context.Context, key string) error

	// DeleteByPattern удаляет все ключи, соответствующие шаблону, например "list_product:*".
	DeleteByPattern(ctx context.Context, pattern string) error

	// GetMulti возвращает только найденные ключи.
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)

	Close() error
}
