package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/conduit/internal/domain"
)

// mountProfiles registers /profiles/{username} and its follow toggle.
// Every profile route requires a resolved user.
func (s *Server) mountProfiles() {
	s.r.Route("/profiles/{username}", func(r chi.Router) {
		r.Get("/", guard(s.handleGetProfile))
		r.Post("/follow", guard(s.handleFollow))
		r.Delete("/follow", guard(s.handleUnfollow))
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, me *domain.User) {
	p, err := s.Profiles.Get(r.Context(), me.ID, chi.URLParam(r, "username"))
	s.respondProfile(w, r, p, err)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, me *domain.User) {
	p, err := s.Profiles.Follow(r.Context(), me.ID, chi.URLParam(r, "username"))
	s.respondProfile(w, r, p, err)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, me *domain.User) {
	p, err := s.Profiles.Unfollow(r.Context(), me.ID, chi.URLParam(r, "username"))
	s.respondProfile(w, r, p, err)
}

func (s *Server) respondProfile(w http.ResponseWriter, r *http.Request, p domain.Profile, err error) {
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, &profileResponse{Profile: profileOf(p)})
}
