package httpserver

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/robalobadob/conduit/internal/domain"
)

// pageParams is the validated pagination of list and feed requests.
type pageParams struct {
	Limit  int `json:"limit" validate:"pagesize"`
	Offset int `json:"offset" validate:"min=0"`
}

// parsePage reads limit and offset, defaulting to DefaultLimit and 0.
func parsePage(q url.Values) (pageParams, error) {
	p := pageParams{Limit: domain.DefaultLimit}
	bad := domain.Validation{}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			bad.Add("limit", "is not a number")
		}
		p.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			bad.Add("offset", "is not a number")
		}
		p.Offset = n
	}
	if err := bad.Err(); err != nil {
		return p, err
	}
	return p, check(p)
}

// parseFilter builds the list filter from the query string.
func parseFilter(r *http.Request) (domain.ArticleFilter, error) {
	q := r.URL.Query()
	p, err := parsePage(q)
	if err != nil {
		return domain.ArticleFilter{}, err
	}
	return domain.ArticleFilter{
		Limit:     p.Limit,
		Offset:    p.Offset,
		Tag:       q.Get("tag"),
		Favorited: q.Get("favorited"),
		Author:    q.Get("author"),
	}, nil
}
