// Package dbtest opens migrated SQLite databases for tests. It uses the
// pure-Go modernc driver so tests run without cgo.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/robalobadob/conduit/internal/db"
)

// Open returns a fresh, migrated in-memory database closed at test cleanup.
// The pool holds a single connection.
func Open(t testing.TB) *db.DB {
	t.Helper()
	return open(t, ":memory:")
}

// OpenFile returns a migrated database in a temporary file. Unlike Open its
// pool hands out several connections, so concurrent callers really contend
// for SQLite's write lock.
func OpenFile(t testing.TB) *db.DB {
	t.Helper()
	return open(t, filepath.Join(t.TempDir(), "conduit.db"))
}

func open(t testing.TB, dsn string) *db.DB {
	t.Helper()
	d, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := db.Migrate(context.Background(), d); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}
