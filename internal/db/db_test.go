package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/conduit/internal/db"
	"github.com/robalobadob/conduit/internal/db/dbtest"
)

func TestRebind(t *testing.T) {
	pg := &db.DB{Driver: "pgx"}
	got := pg.Rebind(`SELECT * FROM t WHERE a = ? AND b LIKE '%?%' AND c IN (?, ?)`)
	want := `SELECT * FROM t WHERE a = $1 AND b LIKE '%?%' AND c IN ($2, $3)`
	if got != want {
		t.Errorf("Rebind pgx:\n got %s\nwant %s", got, want)
	}

	lite := &db.DB{Driver: "sqlite"}
	q := `SELECT ? , ?`
	if lite.Rebind(q) != q {
		t.Errorf("sqlite query should be left alone")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	d := dbtest.Open(t)
	ctx := context.Background()
	if err := db.Migrate(ctx, d); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("_migrations rows = %d, want 1", n)
	}
}

func TestInTxRollsBack(t *testing.T) {
	d := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := d.InTx(ctx, func(q db.Querier) error {
		if _, err := q.ExecContext(ctx, `INSERT INTO tags(name) VALUES (?)`, "go"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx err = %v, want boom", err)
	}

	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("tags after rollback = %d, want 0", n)
	}
}

func TestSelfFollowRejectedBySchema(t *testing.T) {
	d := dbtest.Open(t)
	ctx := context.Background()
	if _, err := d.ExecContext(ctx,
		`INSERT INTO users(id, username, email, password_hash, created_at) VALUES ('u1','a','a@x.com','h', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatal(err)
	}
	_, err := d.ExecContext(ctx, `INSERT INTO follows(follower_id, following_id, created_at) VALUES ('u1','u1', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject a self-follow")
	}
}
