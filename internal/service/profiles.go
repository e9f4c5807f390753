package service

import (
	"context"

	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/store"
)

// Profiles reads public profiles and manages follow edges.
type Profiles struct {
	store *store.Store
	now   Clock
}

func NewProfiles(st *store.Store) *Profiles {
	return &Profiles{store: st, now: utcNow}
}

// Get returns username's profile as seen by viewerID ("" when anonymous).
func (s *Profiles) Get(ctx context.Context, viewerID, username string) (domain.Profile, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return domain.Profile{}, notFound(err, "profile does not exist")
	}
	following := false
	if viewerID != "" && viewerID != u.ID {
		if following, err = s.store.IsFollowing(ctx, viewerID, u.ID); err != nil {
			return domain.Profile{}, err
		}
	}
	return domain.ProfileOf(u, following), nil
}

// Follow makes viewerID follow username. Following twice is a no-op.
func (s *Profiles) Follow(ctx context.Context, viewerID, username string) (domain.Profile, error) {
	u, err := s.target(ctx, viewerID, username)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.store.Follow(ctx, viewerID, u.ID, s.now()); err != nil {
		return domain.Profile{}, err
	}
	return domain.ProfileOf(u, true), nil
}

// Unfollow removes the edge. Unfollowing a user not followed is a no-op.
func (s *Profiles) Unfollow(ctx context.Context, viewerID, username string) (domain.Profile, error) {
	u, err := s.target(ctx, viewerID, username)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := s.store.Unfollow(ctx, viewerID, u.ID); err != nil {
		return domain.Profile{}, err
	}
	return domain.ProfileOf(u, false), nil
}

// target resolves the user to (un)follow; NotFound precedes the self check.
func (s *Profiles) target(ctx context.Context, viewerID, username string) (*domain.User, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "profile does not exist")
	}
	if u.ID == viewerID {
		return nil, domain.Invalid("username", "you can not follow yourself")
	}
	return u, nil
}
