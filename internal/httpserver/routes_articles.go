// internal/httpserver/routes_articles.go
//
// HTTP routes for articles and favorites.
//   - GET    /articles                 list, optional auth (filters: tag, author, favorited, limit, offset)
//   - GET    /articles/feed            followed authors only
//   - POST   /articles                 create (201)
//   - GET    /articles/{slug}          read, optional auth
//   - PUT    /articles/{slug}          author only
//   - DELETE /articles/{slug}          author only (204)
//   - POST   /articles/{slug}/favorite
//   - DELETE /articles/{slug}/favorite

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/robalobadob/conduit/internal/domain"
)

func (s *Server) mountArticles() {
	s.r.Route("/articles", func(r chi.Router) {
		r.Get("/", s.handleListArticles)
		r.Get("/feed", guard(s.handleFeed))
		r.Post("/", guard(s.handleCreateArticle))

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", s.handleGetArticle)
			r.Put("/", guard(s.handleUpdateArticle))
			r.Delete("/", guard(s.handleDeleteArticle))
			r.Post("/favorite", guard(s.handleFavorite))
			r.Delete("/favorite", guard(s.handleUnfavorite))
		})
	})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := s.Articles.List(r.Context(), viewerID(r), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, newArticleListResponse(page))
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, me *domain.User) {
	p, err := parsePage(r.URL.Query())
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := s.Articles.Feed(r.Context(), me.ID, p.Limit, p.Offset)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, newArticleListResponse(page))
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request, me *domain.User) {
	var body createArticleRequest
	if err := render.Bind(r, &body); err != nil {
		fail(w, r, bindError(err))
		return
	}
	a, err := s.Articles.Create(r.Context(), me, body.fields())
	s.respondArticle(w, r, http.StatusCreated, a, err)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.Articles.BySlug(r.Context(), viewerID(r), chi.URLParam(r, "slug"))
	s.respondArticle(w, r, http.StatusOK, a, err)
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request, me *domain.User) {
	var body updateArticleRequest
	if err := render.Bind(r, &body); err != nil {
		fail(w, r, bindError(err))
		return
	}
	a, err := s.Articles.Update(r.Context(), me.ID, chi.URLParam(r, "slug"), body.changes())
	s.respondArticle(w, r, http.StatusOK, a, err)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request, me *domain.User) {
	if err := s.Articles.Delete(r.Context(), me.ID, chi.URLParam(r, "slug")); err != nil {
		fail(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request, me *domain.User) {
	a, err := s.Articles.Favorite(r.Context(), me.ID, chi.URLParam(r, "slug"))
	s.respondArticle(w, r, http.StatusOK, a, err)
}

func (s *Server) handleUnfavorite(w http.ResponseWriter, r *http.Request, me *domain.User) {
	a, err := s.Articles.Unfavorite(r.Context(), me.ID, chi.URLParam(r, "slug"))
	s.respondArticle(w, r, http.StatusOK, a, err)
}

func (s *Server) respondArticle(w http.ResponseWriter, r *http.Request, status int, a *domain.Article, err error) {
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, status, &articleResponse{Article: articleOf(a)})
}
