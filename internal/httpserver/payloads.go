// internal/httpserver/payloads.go
//
// Request and response payloads.
//   - Requests implement render.Binder: JSON is decoded by render.Bind, then
//     Bind validates the wrapped resource ({"user": ...}, {"article": ...}).
//   - Responses implement render.Renderer and are the only place records
//     become wire JSON: password hashes and ids never leave, profiles carry
//     no email, and the token only appears on the caller's own user.

package httpserver

import (
	"net/http"
	"time"

	"github.com/robalobadob/conduit/internal/domain"
)

// --------------------------------- requests ---------------------------------

type registerRequest struct {
	User *struct {
		Username string `json:"username" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6,max=72"`
	} `json:"user" validate:"required"`
}

func (p *registerRequest) Bind(r *http.Request) error { return check(p) }

type loginRequest struct {
	User *struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	} `json:"user" validate:"required"`
}

func (p *loginRequest) Bind(r *http.Request) error { return check(p) }

type createArticleRequest struct {
	Article *struct {
		Title       string   `json:"title" validate:"required,max=255"`
		Description string   `json:"description" validate:"required"`
		Body        string   `json:"body" validate:"required"`
		TagList     []string `json:"tagList" validate:"omitempty,dive,max=64"`
	} `json:"article" validate:"required"`
}

func (p *createArticleRequest) Bind(r *http.Request) error { return check(p) }

func (p *createArticleRequest) fields() domain.ArticleFields {
	a := p.Article
	return domain.ArticleFields{Title: a.Title, Description: a.Description, Body: a.Body, TagList: a.TagList}
}

// updateArticleRequest fields are all optional; absent keeps the stored value.
type updateArticleRequest struct {
	Article *struct {
		Title       *string  `json:"title" validate:"omitnil,min=1,max=255"`
		Description *string  `json:"description" validate:"omitnil,min=1"`
		Body        *string  `json:"body" validate:"omitnil,min=1"`
		TagList     []string `json:"tagList" validate:"omitempty,dive,max=64"`
	} `json:"article" validate:"required"`
}

func (p *updateArticleRequest) Bind(r *http.Request) error { return check(p) }

func (p *updateArticleRequest) changes() domain.ArticleChanges {
	a := p.Article
	return domain.ArticleChanges{Title: a.Title, Description: a.Description, Body: a.Body, TagList: a.TagList}
}

// -------------------------------- responses ---------------------------------

type userBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

type userResponse struct {
	User userBody `json:"user"`
}

func newUserResponse(u *domain.User, token string) *userResponse {
	return &userResponse{User: userBody{
		Email:    u.Email,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}}
}

func (*userResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type profileBody struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

func profileOf(p domain.Profile) profileBody {
	return profileBody{Username: p.Username, Bio: p.Bio, Image: p.Image, Following: p.Following}
}

type profileResponse struct {
	Profile profileBody `json:"profile"`
}

func (*profileResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type articleBody struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	TagList        []string    `json:"tagList"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int         `json:"favoritesCount"`
	Author         profileBody `json:"author"`
}

func articleOf(a *domain.Article) articleBody {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return articleBody{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
		Favorited:      a.Favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         profileOf(a.Author),
	}
}

type articleResponse struct {
	Article articleBody `json:"article"`
}

func (*articleResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type articleListResponse struct {
	Articles      []articleBody `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

func newArticleListResponse(p domain.ArticlePage) *articleListResponse {
	out := &articleListResponse{Articles: make([]articleBody, 0, len(p.Articles)), ArticlesCount: p.Count}
	for i := range p.Articles {
		out.Articles = append(out.Articles, articleOf(&p.Articles[i]))
	}
	return out
}

func (*articleListResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type tagsResponse struct {
	Tags []string `json:"tags"`
}

func (*tagsResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }
