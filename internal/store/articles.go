package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/conduit/internal/db"
	"github.com/robalobadob/conduit/internal/domain"
)

// ArticleRef is the identity and ownership of an article, enough for the
// write paths to check permissions without loading the full row.
type ArticleRef struct {
	ID       string
	AuthorID string
}

// articleSelect yields one row per article with its author and the two
// viewer flags. The first two args are the viewer id ("" when anonymous).
const articleSelect = `
SELECT a.id, a.slug, a.title, a.description, a.body, a.tag_list, a.favorites_count,
       a.created_at, a.updated_at,
       u.id, u.username, u.bio, u.image,
       EXISTS (SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = ?),
       EXISTS (SELECT 1 FROM follows fl WHERE fl.following_id = u.id AND fl.follower_id = ?)
FROM articles a
JOIN users u ON u.id = a.author_id`

// CreateArticle inserts a. a.Author.ID is the author. A duplicate slug yields ErrConflict.
func (s *Store) CreateArticle(ctx context.Context, a *domain.Article) error {
	tags, err := encodeTags(a.TagList)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO articles (id, slug, title, description, body, tag_list, favorites_count, author_id, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.Slug, a.Title, a.Description, a.Body, tags, a.FavoritesCount, a.Author.ID, a.CreatedAt, a.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("insert article %s: %w", a.Slug, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert article %s: %w", a.Slug, err)
	}
	return nil
}

// UpdateArticle writes the mutable columns of a. The slug never changes.
func (s *Store) UpdateArticle(ctx context.Context, a *domain.Article) error {
	tags, err := encodeTags(a.TagList)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx,
		`UPDATE articles SET title = ?, description = ?, body = ?, tag_list = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Description, a.Body, tags, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update article %s: %w", a.Slug, err)
	}
	return nil
}

// DeleteArticle removes the article row.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// SlugExists reports whether an article already uses slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM articles WHERE slug = ?`, slug).Scan(&n); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

// ArticleRefBySlug returns the id and author of the article, or ErrNotFound.
func (s *Store) ArticleRefBySlug(ctx context.Context, slug string) (ArticleRef, error) {
	var ref ArticleRef
	err := s.q.QueryRowContext(ctx, `SELECT id, author_id FROM articles WHERE slug = ?`, slug).
		Scan(&ref.ID, &ref.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ref, ErrNotFound
	}
	if err != nil {
		return ref, fmt.Errorf("select article ref: %w", err)
	}
	return ref, nil
}

// ArticleBySlug loads the article as seen by viewerID ("" for anonymous).
func (s *Store) ArticleBySlug(ctx context.Context, viewerID, slug string) (*domain.Article, error) {
	rows, err := s.q.QueryContext(ctx, articleSelect+` WHERE a.slug = ?`, viewerID, viewerID, slug)
	if err != nil {
		return nil, fmt.Errorf("select article: %w", err)
	}
	list, err := collectArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// ListArticles returns one page of articles matching f, newest first, plus
// the size of the whole filtered set.
func (s *Store) ListArticles(ctx context.Context, viewerID string, f domain.ArticleFilter) (domain.ArticlePage, error) {
	var wheres []string
	var args []any
	if f.Tag != "" {
		pat, err := tagPattern(f.Tag)
		if err != nil {
			return domain.ArticlePage{}, err
		}
		wheres = append(wheres, `a.tag_list LIKE ? ESCAPE '!'`)
		args = append(args, pat)
	}
	if f.Author != "" {
		wheres = append(wheres, "u.username = ?")
		args = append(args, f.Author)
	}
	if f.Favorited != "" {
		wheres = append(wheres, `a.id IN (SELECT fv.article_id FROM favorites fv
		                                  JOIN users fu ON fu.id = fv.user_id
		                                  WHERE fu.username = ?)`)
		args = append(args, f.Favorited)
	}
	return s.page(ctx, viewerID, wheres, args, f.Limit, f.Offset)
}

// FeedArticles returns one page of articles written by the users followerID
// follows. The caller is also the viewer.
func (s *Store) FeedArticles(ctx context.Context, followerID string, limit, offset int) (domain.ArticlePage, error) {
	where := "a.author_id IN (SELECT fo.following_id FROM follows fo WHERE fo.follower_id = ?)"
	return s.page(ctx, followerID, []string{where}, []any{followerID}, limit, offset)
}

func (s *Store) page(ctx context.Context, viewerID string, wheres []string, args []any, limit, offset int) (domain.ArticlePage, error) {
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	var page domain.ArticlePage
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM articles a JOIN users u ON u.id = a.author_id`+where, args...).
		Scan(&page.Count)
	if err != nil {
		return page, fmt.Errorf("count articles: %w", err)
	}

	qargs := make([]any, 0, len(args)+4)
	qargs = append(qargs, viewerID, viewerID)
	qargs = append(qargs, args...)
	qargs = append(qargs, limit, offset)
	rows, err := s.q.QueryContext(ctx,
		articleSelect+where+` ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?`, qargs...)
	if err != nil {
		return page, fmt.Errorf("select articles: %w", err)
	}
	page.Articles, err = collectArticles(rows)
	return page, err
}

// collectArticles scans and closes rows produced by articleSelect.
func collectArticles(rows *sql.Rows) ([]domain.Article, error) {
	defer rows.Close()
	out := []domain.Article{}
	for rows.Next() {
		var a domain.Article
		var tags string
		if err := rows.Scan(
			&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &tags, &a.FavoritesCount,
			&a.CreatedAt, &a.UpdatedAt,
			&a.Author.ID, &a.Author.Username, &a.Author.Bio, &a.Author.Image,
			&a.Favorited, &a.Author.Following,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &a.TagList); err != nil {
			return nil, fmt.Errorf("decode tag_list of %s: %w", a.Slug, err)
		}
		if a.TagList == nil {
			a.TagList = []string{}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// encodeTags serializes tags as a JSON array. HTML escaping is off so the
// stored text holds '&', '<' and '>' literally and tagPattern can match it.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := marshalJSON(tags)
	if err != nil {
		return "", fmt.Errorf("encode tag_list: %w", err)
	}
	return b, nil
}

// tagPattern builds the LIKE pattern for a substring match of tag against
// the serialized tag_list: tag is JSON-escaped the way encodeTags writes it,
// then LIKE wildcards are escaped with '!'.
func tagPattern(tag string) (string, error) {
	quoted, err := marshalJSON(tag)
	if err != nil {
		return "", fmt.Errorf("encode tag filter: %w", err)
	}
	inner := quoted[1 : len(quoted)-1]
	inner = likeEscaper.Replace(inner)
	return "%" + inner + "%", nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
