// Package ledger implements the local-first booking ledger: an ordered
// in-memory collection of booking records mirrored synchronously to durable
// key-value storage on every mutation, plus the merge routine that
// reconciles remote snapshots into it.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/model"
)

// ErrNotFound is returned when an operation references a booking id that is
// not in the ledger.
var ErrNotFound = errors.New("booking not found")

// Store is the authoritative local copy of the bookings collection. Every
// mutating operation persists the full collection to the durable mirror
// before returning, so memory and mirror never disagree once a call has
// returned. A single mutex serializes mutations; the sync loop and HTTP
// handlers may otherwise interleave.
type Store struct {
	mu      sync.Mutex
	kv      kvstore.Store
	records []model.Booking
}

// New returns an empty ledger mirrored to kv under the bookings key.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Load replaces the in-memory collection with the durable mirror's contents.
// A missing or unparsable mirror yields an empty ledger; the storefront must
// come up even after storage corruption, and the next mutation rewrites the
// mirror anyway.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.kv.Get(ctx, kvstore.KeyBookings)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("ledger: load failed: %v; starting empty", err)
		}
		s.records = nil
		return
	}
	var recs []model.Booking
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		log.Printf("ledger: stored collection unparsable: %v; starting empty", err)
		s.records = nil
		return
	}
	s.records = recs
}

// Append inserts a record at the end of the collection and persists. No
// duplicate check is performed here: direct appends are only ever used for
// locally originated records, which always carry a freshly generated id.
// Remote records must go through Merge instead.
func (s *Store) Append(ctx context.Context, b model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(s.copyLocked(), b)
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.records = next
	return nil
}

// RemoveByID removes the first record matching id. It returns ErrNotFound,
// with the ledger untouched, when no record matches.
func (s *Store) RemoveByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			next := s.copyLocked()
			next = append(next[:i], next[i+1:]...)
			if err := s.persistLocked(ctx, next); err != nil {
				return err
			}
			s.records = next
			return nil
		}
	}
	return ErrNotFound
}

// Clear empties the collection and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(ctx, nil); err != nil {
		return err
	}
	s.records = nil
	return nil
}

// Snapshot returns a copy of the current collection in ledger order.
func (s *Store) Snapshot() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of records currently in the ledger.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// copyLocked returns a shallow copy of the current collection. Callers must
// hold s.mu.
func (s *Store) copyLocked() []model.Booking {
	out := make([]model.Booking, len(s.records))
	copy(out, s.records)
	return out
}

// persistLocked serializes the given collection and overwrites the durable
// mirror. Mutations build the next state, persist it, and only then swap it
// in: a failed mirror write leaves the in-memory collection exactly as it
// was, so memory and mirror never disagree after a call returns. Callers
// must hold s.mu.
func (s *Store) persistLocked(ctx context.Context, recs []model.Booking) error {
	if recs == nil {
		recs = []model.Booking{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("ledger: marshal: %w", err)
	}
	if err := s.kv.Set(ctx, kvstore.KeyBookings, string(raw)); err != nil {
		return fmt.Errorf("ledger: persist: %w", err)
	}
	return nil
}
