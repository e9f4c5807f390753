// internal/httpserver/server.go
//
// HTTP server wiring for the Conduit API.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     metrics, JSON, CORS).
//   - Session resolution on every request (fails open).
//   - Public endpoints: "/", "/health", "/tags", article reads.
//   - Guarded endpoints receive the resolved user as a handler parameter.
//
// Notes:
//   - CORS is single-origin; tokens travel in the Authorization header so no
//     credentials mode is needed.
//   - Unknown routes and methods answer with the same {"errors": ...} body as
//     handler failures.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/conduit/internal/auth"
	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/metrics"
	"github.com/robalobadob/conduit/internal/service"
	"github.com/robalobadob/conduit/internal/store"
)

// Deps are the collaborators the handlers call into.
type Deps struct {
	Store    *store.Store
	Tokens   *auth.Tokens
	Users    *service.Users
	Profiles *service.Profiles
	Articles *service.Articles
	Tags     *service.Tags
	Metrics  *metrics.Metrics // optional

	ClientOrigin   string
	RequestTimeout time.Duration
}

// Server bundles the router and its dependencies.
type Server struct {
	r *chi.Mux
	Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), Deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(requestIDLogger)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(d.RequestTimeout))
	if d.Metrics != nil {
		s.r.Use(d.Metrics.Middleware)
	}
	s.r.Use(render.SetContentType(render.ContentTypeJSON))
	s.r.Use(cors(d.ClientOrigin))
	s.r.Use(auth.NewSessions(d.Tokens, d.Users).Resolve)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"service":   "conduit",
			"endpoints": []string{"/health", "/users/*", "/profiles/*", "/articles/*", "/tags"},
		})
	})
	s.r.Get("/health", s.handleHealth)

	s.mountUsers()
	s.mountProfiles()
	s.mountArticles()
	s.mountTags()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, domain.NotFound("no route for "+r.Method+" "+r.URL.Path))
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, map[string]any{"errors": map[string][]string{"body": {"method not allowed"}}})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the router (tests, route docs).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("health: database unreachable")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]bool{"ok": false})
		return
	}
	render.JSON(w, r, map[string]bool{"ok": true})
}

// guardedFunc is a handler for a route that requires a resolved user.
type guardedFunc func(w http.ResponseWriter, r *http.Request, me *domain.User)

// guard runs the access check and hands the user to h.
func guard(h guardedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, err := auth.RequireUser(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		h(w, r, me)
	}
}

// viewerID is the resolved user's id, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	if u := auth.UserFrom(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

// ----------------------------- middleware ----------------------------------

// requestIDLogger adds chi's request id to the per-request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:4200"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
