package httpserver

import "net/http"

// mountTags registers GET /tags.
func (s *Server) mountTags() {
	s.r.Get("/tags", func(w http.ResponseWriter, r *http.Request) {
		tags, err := s.Tags.All(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, &tagsResponse{Tags: tags})
	})
}
