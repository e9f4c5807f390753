// internal/service/articles.go
//
// Article use cases.
//   - Create derives a unique slug from the title (random suffix, retried on
//     collision) and records the tags.
//   - Update and Delete check existence first (404), then authorship (403).
//   - List and Feed return one page plus the filtered total; Feed skips the
//     article query entirely when the viewer follows nobody.
//   - Favorite and Unfavorite run as one transaction: the favorites row is
//     inserted or deleted conditionally and the counter moves only when a row
//     changed, so repeats are no-ops and concurrent calls cannot drift.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/slug"
	"github.com/robalobadob/conduit/internal/store"
)

const slugAttempts = 5

const msgArticleNotFound = "article not found"

// Articles creates, reads, edits and favorites articles.
type Articles struct {
	store    *store.Store
	now      Clock
	makeSlug func(title string) string
}

func NewArticles(st *store.Store) *Articles {
	return &Articles{store: st, now: utcNow, makeSlug: slug.Make}
}

// Create publishes a new article by author.
func (s *Articles) Create(ctx context.Context, author *domain.User, f domain.ArticleFields) (*domain.Article, error) {
	now := s.now()
	a := &domain.Article{
		ID:          uuid.NewString(),
		Title:       f.Title,
		Description: f.Description,
		Body:        f.Body,
		TagList:     cleanTags(f.TagList),
		Author:      domain.ProfileOf(author, false),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 1; ; attempt++ {
		a.Slug = s.makeSlug(f.Title)
		exists, err := s.store.SlugExists(ctx, a.Slug)
		if err != nil {
			return nil, err
		}
		if !exists {
			err = s.store.Tx(ctx, func(tx *store.Store) error {
				if err := tx.CreateArticle(ctx, a); err != nil {
					return err
				}
				return tx.UpsertTags(ctx, a.TagList)
			})
			if err == nil {
				return a, nil
			}
			if !errors.Is(err, store.ErrConflict) {
				return nil, err
			}
		}
		if attempt == slugAttempts {
			return nil, fmt.Errorf("no free slug for %q after %d attempts", f.Title, slugAttempts)
		}
		log.Debug().Str("slug", a.Slug).Int("attempt", attempt).Msg("slug collision, retrying")
	}
}

// BySlug returns the article as seen by viewerID ("" when anonymous).
func (s *Articles) BySlug(ctx context.Context, viewerID, slug string) (*domain.Article, error) {
	a, err := s.store.ArticleBySlug(ctx, viewerID, slug)
	if err != nil {
		return nil, notFound(err, msgArticleNotFound)
	}
	return a, nil
}

// Update merges ch into the article. Only its author may edit it; the slug
// is kept even when the title changes.
func (s *Articles) Update(ctx context.Context, userID, slug string, ch domain.ArticleChanges) (*domain.Article, error) {
	if _, err := s.owned(ctx, userID, slug); err != nil {
		return nil, err
	}
	a, err := s.BySlug(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if ch.Title != nil {
		a.Title = *ch.Title
	}
	if ch.Description != nil {
		a.Description = *ch.Description
	}
	if ch.Body != nil {
		a.Body = *ch.Body
	}
	if ch.TagList != nil {
		a.TagList = cleanTags(ch.TagList)
	}
	a.UpdatedAt = s.now()

	err = s.store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateArticle(ctx, a); err != nil {
			return err
		}
		if ch.TagList != nil {
			return tx.UpsertTags(ctx, a.TagList)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the article and its favorites. Only its author may do so.
func (s *Articles) Delete(ctx context.Context, userID, slug string) error {
	ref, err := s.owned(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.store.Tx(ctx, func(tx *store.Store) error {
		if err := tx.DeleteFavoritesOf(ctx, ref.ID); err != nil {
			return err
		}
		return tx.DeleteArticle(ctx, ref.ID)
	})
}

// owned checks existence and authorship, in that order.
func (s *Articles) owned(ctx context.Context, userID, slug string) (store.ArticleRef, error) {
	ref, err := s.store.ArticleRefBySlug(ctx, slug)
	if err != nil {
		return ref, notFound(err, msgArticleNotFound)
	}
	if ref.AuthorID != userID {
		return ref, domain.Forbidden("you are not the author")
	}
	return ref, nil
}

// List returns a page of articles matching f, newest first.
func (s *Articles) List(ctx context.Context, viewerID string, f domain.ArticleFilter) (domain.ArticlePage, error) {
	if f.Limit <= 0 {
		f.Limit = domain.DefaultLimit
	}
	return s.store.ListArticles(ctx, viewerID, f)
}

// Feed returns a page of articles by authors userID follows, newest first.
// Without follows the page is empty and no article query runs.
func (s *Articles) Feed(ctx context.Context, userID string, limit, offset int) (domain.ArticlePage, error) {
	following, err := s.store.FollowsAnyone(ctx, userID)
	if err != nil {
		return domain.ArticlePage{}, err
	}
	if !following {
		return domain.ArticlePage{Articles: []domain.Article{}}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	return s.store.FeedArticles(ctx, userID, limit, offset)
}

// Favorite marks the article as a favorite of userID.
func (s *Articles) Favorite(ctx context.Context, userID, slug string) (*domain.Article, error) {
	return s.toggleFavorite(ctx, userID, slug, true)
}

// Unfavorite clears userID's favorite of the article.
func (s *Articles) Unfavorite(ctx context.Context, userID, slug string) (*domain.Article, error) {
	return s.toggleFavorite(ctx, userID, slug, false)
}

func (s *Articles) toggleFavorite(ctx context.Context, userID, slug string, on bool) (*domain.Article, error) {
	ref, err := s.store.ArticleRefBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, msgArticleNotFound)
	}
	err = s.store.Tx(ctx, func(tx *store.Store) error {
		var changed bool
		var err error
		delta := 1
		if on {
			changed, err = tx.AddFavorite(ctx, userID, ref.ID, s.now())
		} else {
			changed, err = tx.RemoveFavorite(ctx, userID, ref.ID)
			delta = -1
		}
		if err != nil || !changed {
			return err
		}
		return tx.AdjustFavoritesCount(ctx, ref.ID, delta)
	})
	if err != nil {
		return nil, err
	}
	return s.BySlug(ctx, userID, slug)
}

// cleanTags trims, drops empties and duplicates, keeping first-seen order.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
