package store

import (
	"context"
	"fmt"
	"time"
)

// AddFavorite records userID's favorite of articleID. It reports whether a
// row was inserted; false means the favorite already existed.
func (s *Store) AddFavorite(ctx context.Context, userID, articleID string, at time.Time) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO favorites (user_id, article_id, created_at) VALUES (?,?,?)
		 ON CONFLICT DO NOTHING`,
		userID, articleID, at)
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}
	return n == 1, nil
}

// RemoveFavorite deletes the favorite and reports whether one existed.
func (s *Store) RemoveFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND article_id = ?`, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return n == 1, nil
}

// AdjustFavoritesCount applies delta to the article's denormalized counter.
func (s *Store) AdjustFavoritesCount(ctx context.Context, articleID string, delta int) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE articles SET favorites_count = favorites_count + ? WHERE id = ?`, delta, articleID)
	if err != nil {
		return fmt.Errorf("update favorites_count: %w", err)
	}
	return nil
}

// DeleteFavoritesOf removes every favorite of an article.
func (s *Store) DeleteFavoritesOf(ctx context.Context, articleID string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM favorites WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	return nil
}
