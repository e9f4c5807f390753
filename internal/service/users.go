package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/conduit/internal/auth"
	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/store"
)

// Users registers and authenticates accounts.
type Users struct {
	store *store.Store
	now   Clock
}

func NewUsers(st *store.Store) *Users {
	return &Users{store: st, now: utcNow}
}

// Register creates an account. A taken email or username is a 422 naming the field.
func (s *Users) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if len(password) > auth.MaxPasswordBytes {
		// the request validator counts runes; bcrypt counts bytes
		return nil, domain.Invalid("password", fmt.Sprintf("is too long (maximum is %d bytes)", auth.MaxPasswordBytes))
	}

	taken := domain.Validation{}
	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		taken.Add("email", "has already been taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.UserByUsername(ctx, username); err == nil {
		taken.Add("username", "has already been taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, &domain.Error{Kind: domain.KindUnprocessable, Fields: taken}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// lost a race with a concurrent registration
			return nil, domain.Unprocessable("email or username", "has already been taken")
		}
		return nil, err
	}
	return u, nil
}

// Login checks email and password. Both failure modes share one message.
func (s *Users) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Unprocessable("email or password", "is invalid")
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, domain.Unprocessable("email or password", "is invalid")
	}
	return u, nil
}

// ByID loads an account; it backs session resolution.
func (s *Users) ByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return u, nil
}
