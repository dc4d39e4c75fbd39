package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
)

const moviesKey = "movies"

// defaultMovies seeds a fresh install so the storefront is usable before
// any admin has added a listing.
var defaultMovies = []model.Movie{
	{ID: 1, Name: "Action Thriller", Poster: "https://images.unsplash.com/photo-1489599849927-2ee91cede3ba?w=400&h=600&fit=crop", Date: "2024-12-25", Time: "18:00", Phone: "+91 6382881324"},
	{ID: 2, Name: "Sci-Fi Adventure", Poster: "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=400&h=600&fit=crop", Date: "2024-12-26", Time: "19:00", Phone: "+91 6382881324"},
	{ID: 3, Name: "Drama Masterpiece", Poster: "https://images.unsplash.com/photo-1489599849927-2ee91cede3ba?w=400&h=600&fit=crop", Date: "2024-12-27", Time: "20:00", Phone: "+91 6382881324"},
}

// Local is the KV-backed catalog used when no remote store is configured.
// The full list is stored as one JSON document under the movies key, and new
// ids are assigned as max(existing)+1.
type Local struct {
	mu sync.Mutex
	kv kvstore.Store
}

func NewLocal(kv kvstore.Store) *Local { return &Local{kv: kv} }

func (l *Local) load(ctx context.Context) ([]model.Movie, error) {
	raw, err := l.kv.Get(ctx, moviesKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return append([]model.Movie(nil), defaultMovies...), nil
	}
	if err != nil {
		return nil, err
	}
	var movies []model.Movie
	if err := json.Unmarshal([]byte(raw), &movies); err != nil {
		return append([]model.Movie(nil), defaultMovies...), nil
	}
	return movies, nil
}

func (l *Local) save(ctx context.Context, movies []model.Movie) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, moviesKey, string(raw))
}

func (l *Local) List(ctx context.Context) ([]model.Movie, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *Local) GetByID(ctx context.Context, id int64) (model.Movie, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	movies, err := l.load(ctx)
	if err != nil {
		return model.Movie{}, err
	}
	for _, m := range movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, ErrMovieNotFound
}

// Save inserts when m.ID is zero and updates in place otherwise.
func (l *Local) Save(ctx context.Context, m model.Movie) (model.Movie, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	movies, err := l.load(ctx)
	if err != nil {
		return model.Movie{}, err
	}
	if m.ID == 0 {
		var max int64
		for _, existing := range movies {
			if existing.ID > max {
				max = existing.ID
			}
		}
		m.ID = max + 1
		movies = append(movies, m)
	} else {
		found := false
		for i := range movies {
			if movies[i].ID == m.ID {
				movies[i] = m
				found = true
				break
			}
		}
		if !found {
			return model.Movie{}, ErrMovieNotFound
		}
	}
	if err := l.save(ctx, movies); err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

func (l *Local) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	movies, err := l.load(ctx)
	if err != nil {
		return err
	}
	for i := range movies {
		if movies[i].ID == id {
			movies = append(movies[:i], movies[i+1:]...)
			return l.save(ctx, movies)
		}
	}
	return ErrMovieNotFound
}
