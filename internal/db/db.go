// internal/db/db.go
//
// Database handle for the Conduit server.
// Responsibilities:
//   - Opening a database/sql pool for one of three drivers:
//       sqlite3 (mattn/go-sqlite3, cgo), sqlite (modernc.org/sqlite, pure Go),
//       pgx (jackc/pgx/v5 stdlib, PostgreSQL).
//   - SQLite defaults: WAL, busy timeout, foreign keys, immediate tx locks.
//   - Rebinding `?` placeholders to `$n` for PostgreSQL so the stores can
//     carry one copy of each query.
//   - Running a function inside a transaction (InTx).

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Querier is the subset of *sql.DB / *sql.Tx the stores need. Queries
// passed through a Querier returned by this package are already rebound.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a pool together with the driver it was opened with.
type DB struct {
	SQL    *sql.DB
	Driver string
}

// Open opens (and for SQLite files, creates) the database at dsn.
func Open(driver, dsn string) (*DB, error) {
	var full string
	switch driver {
	case "sqlite3":
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		full = withParams(dsn, "_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_txlock=immediate")
	case "sqlite":
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		full = withParams(dsn, "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite&_txlock=immediate")
	case "pgx":
		full = dsn
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	pool, err := sql.Open(driver, full)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if strings.Contains(dsn, ":memory:") {
		// every new connection would get its own empty in-memory database
		pool.SetMaxOpenConns(1)
	}
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &DB{SQL: pool, Driver: driver}, nil
}

// Close closes the pool.
func (d *DB) Close() error { return d.SQL.Close() }

// Postgres reports whether queries need $n placeholders.
func (d *DB) Postgres() bool { return d.Driver == "pgx" }

// Rebind rewrites `?` placeholders for the current driver.
func (d *DB) Rebind(query string) string {
	if !d.Postgres() {
		return query
	}
	return rebindDollar(query)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.SQL.ExecContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.SQL.QueryContext(ctx, d.Rebind(query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.SQL.QueryRowContext(ctx, d.Rebind(query), args...)
}

// InTx runs fn inside a transaction, committing when fn returns nil.
// fn must issue every query through q; with a single-connection pool a
// query on the outer DB would block until the transaction ends.
func (d *DB) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(&txQuerier{tx: tx, db: d}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type txQuerier struct {
	tx *sql.Tx
	db *DB
}

func (t *txQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.db.Rebind(query), args...)
}

func (t *txQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.db.Rebind(query), args...)
}

func (t *txQuerier) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.db.Rebind(query), args...)
}

// rebindDollar replaces each `?` outside single-quoted literals with $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func withParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// ensureDir creates the parent directory of a file DSN such as ./data/app.db.
func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}
