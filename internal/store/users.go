package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalobadob/conduit/internal/db"
	"github.com/robalobadob/conduit/internal/domain"
)

const userColumns = `id, username, email, password_hash, bio, image, created_at`

// CreateUser inserts u. A taken username or email yields ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, bio, image, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Bio, u.Image, u.CreatedAt)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("insert user %s: %w", u.Username, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return nil
}

// UserByID, UserByEmail and UserByUsername load one account or ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.userWhere(ctx, `id = ?`, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userWhere(ctx, `email = ?`, email)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userWhere(ctx, `username = ?`, username)
}

func (s *Store) userWhere(ctx context.Context, cond string, arg any) (*domain.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.Image, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
