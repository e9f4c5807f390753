// Package service holds the Conduit use cases: accounts, profiles and
// follows, articles and favorites, tags. Services receive the store
// explicitly and translate store errors into domain errors.
package service

import (
	"errors"
	"time"

	"github.com/robalobadob/conduit/internal/domain"
	"github.com/robalobadob/conduit/internal/store"
)

// Clock returns the current time; tests substitute a fixed sequence.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// notFound maps store.ErrNotFound to a domain NotFound with msg.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return err
}
