// Package store provides the database access layer. All chunk
// operations are scoped to a single owner; nothing in this package can
// read or delete another user's rows.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database access methods backed by a shared pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
