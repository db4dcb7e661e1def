package interfaces

import (
	"context"
	"io"
)

// MediaPort определяет интерфейс хранилища медиафайлов магазина.
type MediaPort interface {
	Read(ctx context.Context, path string) ([]byte, error)
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, path string, contents []byte) error
	WriteStream(ctx context.Context, path string, r io.Reader) error
	Has(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, path, newPath string) error
	GetSize(ctx context.Context, path string) (int64, error)
	ListFiles(ctx context.Context, dir string) ([]string, error)

	// GetURL возвращает публичный url; для пустого пути ok равно false.
	GetURL(path string) (url string, ok bool)
	Encode(path string) string
	Normalize(path string) string
}
