package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/conduit/internal/domain"
)

// ErrResponse renders {"errors": {field: [messages]}} with a status code.
type ErrResponse struct {
	Err            error `json:"-"` // underlying error, never sent
	HTTPStatusCode int   `json:"-"`

	Errors map[string][]string `json:"errors"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

var statusOf = map[domain.Kind]int{
	domain.KindInvalid:       http.StatusBadRequest,
	domain.KindUnauthorized:  http.StatusUnauthorized,
	domain.KindForbidden:     http.StatusForbidden,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindUnprocessable: http.StatusUnprocessableEntity,
}

// errorFor maps err onto a response. Domain errors are the client's
// problem and log at debug; anything else is a 500 with a generic body.
func errorFor(r *http.Request, err error) *ErrResponse {
	var de *domain.Error
	if errors.As(err, &de) {
		if status, ok := statusOf[de.Kind]; ok {
			hlog.FromRequest(r).Debug().Err(err).Msg("request rejected")
			fields := de.Fields
			if len(fields) == 0 {
				fields = map[string][]string{"body": {de.Kind.String()}}
			}
			return &ErrResponse{Err: err, HTTPStatusCode: status, Errors: fields}
		}
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Errors:         map[string][]string{"body": {"internal server error"}},
	}
}

// fail writes the error response for err.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if rerr := render.Render(w, r, errorFor(r, err)); rerr != nil {
		hlog.FromRequest(r).Error().Err(rerr).Msg("render error response")
	}
}

// respond renders v with status.
func respond(w http.ResponseWriter, r *http.Request, status int, v render.Renderer) {
	render.Status(r, status)
	if err := render.Render(w, r, v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render response")
	}
}
