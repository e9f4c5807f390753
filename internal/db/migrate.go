package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations/*.sql files in lexical order.
//
//   - A _migrations table records applied file names.
//   - Each file runs in its own transaction together with its record row.
//   - Files already recorded are skipped, so Migrate is safe on every boot.
func Migrate(ctx context.Context, d *DB) error {
	if _, err := d.SQL.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := d.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name = ?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrationsFS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		err = d.InTx(ctx, func(q Querier) error {
			if _, err := q.ExecContext(ctx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
			if _, err := q.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
				return fmt.Errorf("record %s: %w", f, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
