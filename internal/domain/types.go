// internal/domain/types.go
//
// Core record types shared by the store, service and HTTP layers.
// Defines:
//   - User: an account, including its password hash (never rendered).
//   - Profile: the public view of a user as seen by a viewer.
//   - Article: an article joined with its author's profile and the
//     viewer-dependent favorited flag.
//   - ArticleFields / ArticleChanges: create and merge-update inputs.
//   - ArticleFilter / ArticlePage: list/feed query and result.

package domain

import "time"

// User is a registered account.
type User struct {
	ID           string    // uuid
	Username     string    // unique
	Email        string    // unique
	PasswordHash string    // bcrypt hash; never leaves the server
	Bio          string
	Image        string    // avatar URL
	CreatedAt    time.Time
}

// Profile is a user's public face plus whether the viewer follows them.
type Profile struct {
	ID        string
	Username  string
	Bio       string
	Image     string
	Following bool
}

// ProfileOf builds a Profile for u with the given following flag.
func ProfileOf(u *User, following bool) Profile {
	return Profile{ID: u.ID, Username: u.Username, Bio: u.Bio, Image: u.Image, Following: following}
}

// Article is a stored article as seen by a particular viewer.
type Article struct {
	ID             string
	Slug           string
	Title          string
	Description    string
	Body           string
	TagList        []string
	FavoritesCount int
	Favorited      bool // viewer has favorited it; false for anonymous viewers
	Author         Profile
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ArticleFields are the author-supplied values of a new article.
type ArticleFields struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticleChanges is a partial update. Nil fields keep their current value.
type ArticleChanges struct {
	Title       *string
	Description *string
	Body        *string
	TagList     []string // nil keeps the current list; empty clears it
}

// Defaults and bounds for list pagination.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ArticleFilter narrows a list or feed query. All string filters are
// optional and combine with AND; empty means "not filtered".
type ArticleFilter struct {
	Limit     int    // page size, 1..MaxLimit
	Offset    int    // rows to skip, >= 0
	Tag       string // substring of the serialized tag list
	Favorited string // username whose favorites restrict the result
	Author    string // username of the author
}

// ArticlePage is one page of articles plus the total size of the filtered set.
type ArticlePage struct {
	Articles []Article
	Count    int
}
