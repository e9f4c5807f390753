// internal/store/store.go
//
// SQL persistence for users, follows, articles, favorites and tags.
//
// Characteristics:
//   - One Store value wraps either the pool or an open transaction; Tx hands
//     the callback a Store bound to the transaction.
//   - Queries are written once with `?` placeholders; internal/db rebinds them
//     for PostgreSQL.
//   - Missing rows surface as ErrNotFound, duplicate keys as ErrConflict.
//     Callers translate both into domain errors.

package store

import (
	"context"
	"errors"

	"github.com/robalobadob/conduit/internal/db"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
)

// Store is the repository handed to the services.
type Store struct {
	db *db.DB
	q  db.Querier
}

// New returns a Store over the pool.
func New(d *db.DB) *Store {
	return &Store{db: d, q: d}
}

// Tx runs fn with a Store bound to a single transaction. fn must use the
// Store it is given, never the outer one.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.InTx(ctx, func(q db.Querier) error {
		return fn(&Store{db: s.db, q: q})
	})
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.SQL.PingContext(ctx)
}
