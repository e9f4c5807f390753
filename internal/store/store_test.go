package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/conduit/internal/db/dbtest"
	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/store"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s *store.Store, id, name string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Username: name, Email: name + "@x.com", PasswordHash: "h", CreatedAt: t0}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func seedArticle(t *testing.T, s *store.Store, id, slug string, author *domain.User, tags []string, at time.Time) {
	t.Helper()
	a := &domain.Article{
		ID: id, Slug: slug, Title: slug, Description: "d", Body: "b", TagList: tags,
		Author: domain.ProfileOf(author, false), CreatedAt: at, UpdatedAt: at,
	}
	if err := s.CreateArticle(context.Background(), a); err != nil {
		t.Fatalf("CreateArticle(%s): %v", slug, err)
	}
}

func TestUserLookups(t *testing.T) {
	s := store.New(dbtest.Open(t))
	ctx := context.Background()
	seedUser(t, s, "u1", "alice")

	u, err := s.UserByEmail(ctx, "alice@x.com")
	if err != nil || u.ID != "u1" || !u.CreatedAt.Equal(t0) {
		t.Fatalf("UserByEmail = %+v, %v", u, err)
	}
	if _, err := s.UserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user err = %v", err)
	}
	dup := &domain.User{ID: "u2", Username: "alice", Email: "other@x.com", PasswordHash: "h", CreatedAt: t0}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate username err = %v, want ErrConflict", err)
	}
}

func TestListArticlesFiltersAndCount(t *testing.T) {
	s := store.New(dbtest.Open(t))
	ctx := context.Background()
	a := seedUser(t, s, "u1", "alice")
	b := seedUser(t, s, "u2", "bob")

	seedArticle(t, s, "a1", "one", a, []string{"go", "sql"}, t0)
	seedArticle(t, s, "a2", "two", a, []string{"rust"}, t0.Add(time.Minute))
	seedArticle(t, s, "a3", "three", b, nil, t0.Add(2*time.Minute))

	if ok, err := s.AddFavorite(ctx, b.ID, "a1", t0); err != nil || !ok {
		t.Fatalf("AddFavorite = %v, %v", ok, err)
	}

	page, err := s.ListArticles(ctx, "", domain.ArticleFilter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 3 || len(page.Articles) != 2 {
		t.Fatalf("count=%d len=%d, want 3/2", page.Count, len(page.Articles))
	}
	if page.Articles[0].Slug != "three" || page.Articles[1].Slug != "two" {
		t.Errorf("order = %s,%s", page.Articles[0].Slug, page.Articles[1].Slug)
	}
	if page.Articles[0].TagList == nil || len(page.Articles[0].TagList) != 0 {
		t.Errorf("empty tag list = %#v", page.Articles[0].TagList)
	}

	cases := []struct {
		name string
		f    domain.ArticleFilter
		want []string
	}{
		{"tag", domain.ArticleFilter{Tag: "go"}, []string{"one"}},
		{"author", domain.ArticleFilter{Author: "alice"}, []string{"two", "one"}},
		{"favorited", domain.ArticleFilter{Favorited: "bob"}, []string{"one"}},
		{"favorited none", domain.ArticleFilter{Favorited: "alice"}, nil},
		{"favorited unknown", domain.ArticleFilter{Favorited: "ghost"}, nil},
		{"combined", domain.ArticleFilter{Author: "alice", Tag: "rust"}, []string{"two"}},
	}
	for _, tc := range cases {
		tc.f.Limit = domain.DefaultLimit
		page, err := s.ListArticles(ctx, "", tc.f)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		var got []string
		for _, art := range page.Articles {
			got = append(got, art.Slug)
		}
		if page.Count != len(tc.want) || len(got) != len(tc.want) {
			t.Errorf("%s: got %v (count %d), want %v", tc.name, got, page.Count, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}

	one, err := s.ArticleBySlug(ctx, b.ID, "one")
	if err != nil {
		t.Fatal(err)
	}
	if !one.Favorited || one.Author.Username != "alice" {
		t.Errorf("viewer flags = %+v", one)
	}
}

func TestFavoriteRowsAreIdempotent(t *testing.T) {
	s := store.New(dbtest.Open(t))
	ctx := context.Background()
	a := seedUser(t, s, "u1", "alice")
	seedArticle(t, s, "a1", "one", a, nil, t0)

	first, _ := s.AddFavorite(ctx, a.ID, "a1", t0)
	second, _ := s.AddFavorite(ctx, a.ID, "a1", t0)
	if !first || second {
		t.Errorf("AddFavorite inserted = %v, %v; want true, false", first, second)
	}
	removed, _ := s.RemoveFavorite(ctx, a.ID, "a1")
	again, _ := s.RemoveFavorite(ctx, a.ID, "a1")
	if !removed || again {
		t.Errorf("RemoveFavorite = %v, %v; want true, false", removed, again)
	}
}

func TestTagFilterMatchesSpecialCharacters(t *testing.T) {
	s := store.New(dbtest.Open(t))
	ctx := context.Background()
	a := seedUser(t, s, "u1", "alice")

	seedArticle(t, s, "a1", "amp", a, []string{"r&d"}, t0)
	seedArticle(t, s, "a2", "angle", a, []string{"<html>"}, t0)
	seedArticle(t, s, "a3", "quote", a, []string{`say "hi"`}, t0)
	seedArticle(t, s, "a4", "percent", a, []string{"100%"}, t0)
	seedArticle(t, s, "a5", "thousand", a, []string{"1000x"}, t0)
	seedArticle(t, s, "a6", "underscore", a, []string{"a_b"}, t0)
	seedArticle(t, s, "a7", "axb", a, []string{"axb"}, t0)
	seedArticle(t, s, "a8", "path", a, []string{`c:\dir`}, t0)

	for tag, want := range map[string]string{
		"r&d":      "amp",
		"<html>":   "angle",
		`"hi"`:     "quote",
		"100%":     "percent",
		"a_b":      "underscore",
		`c:\dir`:  "path",
		"thousand": "",
	} {
		page, err := s.ListArticles(ctx, "", domain.ArticleFilter{Tag: tag, Limit: domain.DefaultLimit})
		if err != nil {
			t.Fatalf("tag %q: %v", tag, err)
		}
		if want == "" {
			if page.Count != 0 {
				t.Errorf("tag %q: count=%d, want 0", tag, page.Count)
			}
			continue
		}
		if page.Count != 1 || len(page.Articles) != 1 || page.Articles[0].Slug != want {
			t.Errorf("tag %q: count=%d articles=%v, want %s", tag, page.Count, page.Articles, want)
		}
	}

	// stored tags round-trip unescaped
	got, err := s.ArticleBySlug(ctx, "", "amp")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagList) != 1 || got.TagList[0] != "r&d" {
		t.Errorf("tags = %q", got.TagList)
	}
}

func TestFeedFollowsAuthors(t *testing.T) {
	s := store.New(dbtest.Open(t))
	ctx := context.Background()
	a := seedUser(t, s, "u1", "alice")
	b := seedUser(t, s, "u2", "bob")
	c := seedUser(t, s, "u3", "carol")
	seedArticle(t, s, "a1", "by-alice", a, nil, t0)
	seedArticle(t, s, "a2", "by-carol", c, nil, t0.Add(time.Minute))
	seedArticle(t, s, "a3", "by-bob", b, nil, t0.Add(2*time.Minute))

	page, err := s.FeedArticles(ctx, b.ID, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 0 || page.Articles == nil || len(page.Articles) != 0 {
		t.Fatalf("feed without follows = %+v", page)
	}
	if ok, err := s.FollowsAnyone(ctx, b.ID); err != nil || ok {
		t.Fatalf("FollowsAnyone before follow = %v, %v", ok, err)
	}

	for _, id := range []string{a.ID, c.ID} {
		if err := s.Follow(ctx, b.ID, id, t0); err != nil {
			t.Fatal(err)
		}
	}
	if ok, err := s.FollowsAnyone(ctx, b.ID); err != nil || !ok {
		t.Fatalf("FollowsAnyone after follow = %v, %v", ok, err)
	}
	page, err = s.FeedArticles(ctx, b.ID, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 2 || len(page.Articles) != 1 || page.Articles[0].Slug != "by-carol" {
		t.Fatalf("feed page = %+v", page)
	}
	if !page.Articles[0].Author.Following {
		t.Errorf("author not marked as followed")
	}
}
