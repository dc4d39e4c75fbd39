package ledger

import (
	"context"

	"github.com/bluemoon1528/clusters/internal/model"
)

// MergeResult reports what a merge pass changed.
type MergeResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Merge reconciles a batch of remote records into the ledger.
//
// Records are processed in the order delivered, with no resort. A record
// whose id is unknown locally is appended. A record whose id already exists
// locally replaces the local copy in place only when overwrite is set;
// otherwise the local record wins and the remote copy is ignored for that
// id. The live feed merges with overwrite=false so a booking created locally
// but not yet acknowledged by the remote store can never be clobbered; an
// operator pull merges with overwrite=true as an explicit "trust the cloud"
// action.
//
// The mirror is rewritten only when the pass changed something, so replaying
// the same snapshot is idempotent and cheap.
func (s *Store) Merge(ctx context.Context, batch []model.Booking, overwrite bool) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	next := s.copyLocked()
	for _, remote := range batch {
		idx := -1
		for i := range next {
			if next[i].ID == remote.ID {
				idx = i
				break
			}
		}
		switch {
		case idx == -1:
			next = append(next, remote)
			res.Added++
		case overwrite:
			next[idx] = remote
			res.Updated++
		}
	}
	if res.Added+res.Updated > 0 {
		if err := s.persistLocked(ctx, next); err != nil {
			return MergeResult{}, err
		}
		s.records = next
	}
	return res, nil
}
