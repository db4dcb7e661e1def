package interfaces

import "context"

// StoragePort определяет жизненный цикл постоянного хранилища.
type StoragePort interface {
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error

	Close() error
}
