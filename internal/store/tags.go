package store

import (
	"context"
	"fmt"
)

// UpsertTags makes sure every name exists in the tags table.
func (s *Store) UpsertTags(ctx context.Context, names []string) error {
	for _, n := range names {
		if _, err := s.q.ExecContext(ctx,
			`INSERT INTO tags (name) VALUES (?) ON CONFLICT DO NOTHING`, n); err != nil {
			return fmt.Errorf("upsert tag %q: %w", n, err)
		}
	}
	return nil
}

// Tags returns all tag names in ascending order.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
