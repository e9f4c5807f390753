package store

import (
	"context"
	"fmt"
	"time"
)

// IsFollowing reports whether the follower -> following edge exists.
func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("select follow: %w", err)
	}
	return n > 0, nil
}

// Follow adds the edge; an existing edge is left untouched.
func (s *Store) Follow(ctx context.Context, followerID, followingID string, at time.Time) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES (?,?,?)
		 ON CONFLICT DO NOTHING`,
		followerID, followingID, at)
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present.
func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// FollowsAnyone reports whether followerID has at least one outgoing edge.
func (s *Store) FollowsAnyone(ctx context.Context, followerID string) (bool, error) {
	var ok bool
	err := s.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ?)`, followerID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("select follows: %w", err)
	}
	return ok, nil
}
