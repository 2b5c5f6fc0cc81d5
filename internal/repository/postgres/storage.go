package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/reqtoken/internal/repository"
)

// Connection or transaction the repositories run queries on
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	*TokenRepo

	pool *pgxpool.Pool
}

// Wrap opened pool as storage
// The storage owns the pool: Close closes it
func NewStorage(pool *pgxpool.Pool) repository.Storage {
	return &Storage{
		TokenRepo: &TokenRepo{DB: pool},
		pool:      pool,
	}
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
