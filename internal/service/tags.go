package service

import (
	"context"

	"github.com/robalobadob/conduit/internal/store"
)

// Tags lists the tag vocabulary.
type Tags struct {
	store *store.Store
}

func NewTags(st *store.Store) *Tags { return &Tags{store: st} }

// All returns every tag ever attached to an article, sorted.
func (s *Tags) All(ctx context.Context) ([]string, error) {
	return s.store.Tags(ctx)
}
