package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bluemoon1528/clusters/internal/model"
)

// Remote is the catalog backed by the cloud movies table. It mirrors the
// column set of model.Movie one to one.
type Remote struct {
	DB *sql.DB
}

func NewRemote(db *sql.DB) *Remote { return &Remote{DB: db} }

func (r *Remote) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, poster, show_date, show_time, phone FROM movies ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Name, &m.Poster, &m.Date, &m.Time, &m.Phone); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Remote) GetByID(ctx context.Context, id int64) (model.Movie, error) {
	var m model.Movie
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, poster, show_date, show_time, phone FROM movies WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Name, &m.Poster, &m.Date, &m.Time, &m.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Save inserts when m.ID is zero and updates otherwise.
func (r *Remote) Save(ctx context.Context, m model.Movie) (model.Movie, error) {
	if m.ID == 0 {
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO movies (name, poster, show_date, show_time, phone) VALUES (?,?,?,?,?)",
			m.Name, m.Poster, m.Date, m.Time, m.Phone)
		if err != nil {
			return model.Movie{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Movie{}, err
		}
		m.ID = id
		return m, nil
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET name=?, poster=?, show_date=?, show_time=?, phone=? WHERE id=?",
		m.Name, m.Poster, m.Date, m.Time, m.Phone, m.ID)
	if err != nil {
		return model.Movie{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; distinguish via a read.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return model.Movie{}, err
		}
	}
	return m, nil
}

func (r *Remote) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
