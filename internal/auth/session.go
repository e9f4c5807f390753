package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/conduit/internal/domain"
)

// UserLoader loads the account a token refers to.
type UserLoader interface {
	ByID(ctx context.Context, id string) (*domain.User, error)
}

// Sessions resolves the caller of each request from its bearer token.
type Sessions struct {
	tokens *Tokens
	users  UserLoader
}

func NewSessions(tokens *Tokens, users UserLoader) *Sessions {
	return &Sessions{tokens: tokens, users: users}
}

// ctxUserKey is the context key type for the resolved *domain.User.
type ctxUserKey struct{}

// Resolve decorates requests with the user when a valid token is present.
// It never rejects: a missing, invalid or orphaned token leaves the request
// anonymous and protected routes turn that into a 401 via RequireUser.
func (s *Sessions) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFrom(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.tokens.Decode(tok)
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("ignoring token")
			next.ServeHTTP(w, r)
			return
		}
		u, err := s.users.ByID(r.Context(), claims.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				hlog.FromRequest(r).Warn().Err(err).Str("user", claims.ID).Msg("load session user")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// tokenFrom extracts the token from "Authorization: Token <jwt>" or
// "Authorization: Bearer <jwt>".
func tokenFrom(r *http.Request) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// UserFrom returns the resolved user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(ctxUserKey{}).(*domain.User)
	return u
}

// RequireUser is the access guard for protected operations.
func RequireUser(ctx context.Context) (*domain.User, error) {
	if u := UserFrom(ctx); u != nil {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}
