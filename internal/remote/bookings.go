// Package remote is the client for the cloud document store. Bookings are
// stored as whole JSON documents keyed by booking id, which keeps the remote
// schema identical to the ledger's own record shape.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/bluemoon1528/clusters/internal/model"
)

// ErrUnavailable is returned when the remote store is not configured or not
// reachable. Local operations carry on; only remote-dependent work fails.
var ErrUnavailable = errors.New("remote store unavailable")

// Bookings wraps the remote bookings collection. A nil receiver or nil DB
// means "not configured" and every operation reports ErrUnavailable.
type Bookings struct {
	DB *sql.DB
}

func NewBookings(db *sql.DB) *Bookings { return &Bookings{DB: db} }

func (r *Bookings) available() error {
	if r == nil || r.DB == nil {
		return ErrUnavailable
	}
	return nil
}

// FetchAll retrieves the full remote collection. Rows are returned in
// insertion order; the merge engine processes them exactly as delivered.
func (r *Bookings) FetchAll(ctx context.Context) ([]model.Booking, error) {
	if err := r.available(); err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, "SELECT doc FROM bookings ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var b model.Booking
		if err := json.Unmarshal(raw, &b); err != nil {
			// A malformed document must not poison the whole pull.
			log.Printf("remote: skipping unparsable booking document: %v", err)
			continue
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Save upserts a single booking document keyed by its id.
func (r *Bookings) Save(ctx context.Context, b model.Booking) error {
	if err := r.available(); err != nil {
		return err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO bookings (id, doc) VALUES (?,?) ON DUPLICATE KEY UPDATE doc=VALUES(doc)",
		b.ID, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes a booking document. Deleting an id that does not exist
// remotely is not an error.
func (r *Bookings) Delete(ctx context.Context, id string) error {
	if err := r.available(); err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PushAll writes every record to the remote collection in one transaction,
// unconditionally overwriting whatever remote state exists for each id.
func (r *Bookings) PushAll(ctx context.Context, batch []model.Booking) error {
	if err := r.available(); err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO bookings (id, doc) VALUES (?,?) ON DUPLICATE KEY UPDATE doc=VALUES(doc)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range batch {
		raw, err := json.Marshal(b)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, b.ID, raw); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return tx.Commit()
}
