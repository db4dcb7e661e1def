package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/tx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage is the PostgreSQL implementation of the catalog, admin, context and
// risk repositories. All methods join a transaction started by tx.TxManager
// when the context carries one.
type Storage struct {
	pool  *pgxpool.Pool
	media URLResolver
}

// URLResolver turns stored media paths into public URLs.
type URLResolver interface {
	GetURL(path string) (string, bool)
}

func NewStorage(ctx context.Context, pool *pgxpool.Pool) (*Storage, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Storage{pool: pool}, nil
}

// SetMediaResolver makes hydrated media carry public URLs instead of paths.
func (r *Storage) SetMediaResolver(resolver URLResolver) {
	r.media = resolver
}

func (r *Storage) mediaURL(path string) string {
	if r.media == nil {
		return path
	}
	if url, ok := r.media.GetURL(path); ok {
		return url
	}
	return ""
}

// Pool exposes the pool for components that build their own queries.
func (r *Storage) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *Storage) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Storage) Close() error {
	r.pool.Close()
	return nil
}

type executor interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// getExecutor returns the transaction from ctx or the pool.
func (r *Storage) getExecutor(ctx context.Context) executor {
	if t, ok := ctx.Value(tx.GetKey()).(pgx.Tx); ok {
		return t
	}
	return r.pool
}

// withoutTx detaches ctx from a transaction for concurrent reads; a pgx.Tx
// must not be shared between goroutines.
func withoutTx(ctx context.Context) context.Context {
	if _, ok := ctx.Value(tx.GetKey()).(pgx.Tx); !ok {
		return ctx
	}
	return context.WithValue(ctx, tx.GetKey(), nil)
}

// attributesJSON encodes attributes for a JSONB column; nil stays NULL.
func attributesJSON(attrs map[string]interface{}) ([]byte, error) {
	if attrs == nil {
		return nil, nil
	}
	return json.Marshal(attrs)
}

// decodeAttribute stores raw JSON under name when it holds any field.
func decodeAttribute(raw []byte, name string, into *models.Attributes) error {
	if len(raw) == 0 {
		return nil
	}
	var attr models.Attribute
	if err := json.Unmarshal(raw, &attr); err != nil {
		return fmt.Errorf("failed to decode %s attributes: %w", name, err)
	}
	if len(attr) > 0 {
		into.Set(name, attr)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var _ interfaces.StoragePort = (*Storage)(nil)
