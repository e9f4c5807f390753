package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/robalobadob/conduit/internal/domain"
)

// mountUsers registers /users/register, /users/login and the gated /users/access.
func (s *Server) mountUsers() {
	s.r.Route("/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/access", guard(s.handleAccess))
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := render.Bind(r, &body); err != nil {
		fail(w, r, bindError(err))
		return
	}
	in := body.User
	u, err := s.Users.Register(r.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	s.respondUser(w, r, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := render.Bind(r, &body); err != nil {
		fail(w, r, bindError(err))
		return
	}
	u, err := s.Users.Login(r.Context(), body.User.Email, body.User.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	s.respondUser(w, r, http.StatusOK, u)
}

func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request, me *domain.User) {
	s.respondUser(w, r, http.StatusOK, me)
}

// respondUser renders u with a freshly issued token.
func (s *Server) respondUser(w http.ResponseWriter, r *http.Request, status int, u *domain.User) {
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, status, newUserResponse(u, tok))
}
