// Package catalog resolves movie listings for the storefront. The booking
// core only ever reads a catalog entry once, at booking creation, to
// denormalize its fields into the new record. Two sources exist: the remote
// movies table, and a KV-backed local list seeded with defaults for
// installs that have no remote store configured.
package catalog

import (
	"context"
	"errors"

	"github.com/bluemoon1528/clusters/internal/model"
)

// ErrMovieNotFound is returned when a catalog id does not resolve.
var ErrMovieNotFound = errors.New("movie not found")

// Source is the catalog contract consumed by the booking service and the
// admin movie handlers.
type Source interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id int64) (model.Movie, error)
	Save(ctx context.Context, m model.Movie) (model.Movie, error)
	Delete(ctx context.Context, id int64) error
}
