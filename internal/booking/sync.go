package booking

import (
	"context"
	"log"
	"sync"

	"github.com/bluemoon1528/clusters/internal/queue"
)

// Syncer owns the live-subscription lifecycle. When enabled it runs the
// broker consumer and a single merge loop: every snapshot delivered by the
// feed is reconciled into the ledger with insert-only semantics, so the feed
// can add bookings made elsewhere but never clobber a local record. Routing
// all deliveries through one channel consumer is what keeps merges from two
// in-flight callbacks from interleaving.
type Syncer struct {
	svc    *Service
	listen func(ctx context.Context, out chan<- queue.SnapshotEvent) error

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSyncer(svc *Service) *Syncer {
	return &Syncer{svc: svc, listen: queue.StartSnapshotConsumer}
}

// Enable starts the subscription. It reports whether the feed was newly
// enabled; calling it while already enabled is a no-op.
func (y *Syncer) Enable() bool {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	y.cancel = cancel

	events := make(chan queue.SnapshotEvent, 1)
	go func() {
		if err := y.listen(ctx, events); err != nil && ctx.Err() == nil {
			log.Printf("sync: consumer stopped: %v", err)
		}
		close(events)
	}()
	go y.run(ctx, events)
	return true
}

// Disable stops the subscription; no further snapshots are delivered after
// it returns. Safe to call when already disabled.
func (y *Syncer) Disable() {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.cancel != nil {
		y.cancel()
		y.cancel = nil
	}
}

// Enabled reports whether the live feed is running.
func (y *Syncer) Enabled() bool {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.cancel != nil
}

// run is the single consumer of the snapshot channel.
func (y *Syncer) run(ctx context.Context, events <-chan queue.SnapshotEvent) {
	for ev := range events {
		if ctx.Err() != nil {
			// Disable may leave one delivery sitting in the channel
			// buffer; drain it without merging so unsubscribe is strict.
			continue
		}
		res, err := y.svc.MergeFromRemote(ctx, ev.Bookings, false)
		if err != nil {
			log.Printf("sync: merge of snapshot from %s failed: %v", ev.Source, err)
			continue
		}
		// The tickets-sold aggregate is refreshed even when the merge was a
		// no-op; the dashboard reads it live.
		stats := y.svc.Stats()
		if res.Added+res.Updated > 0 {
			log.Printf("sync: merged snapshot from %s: added=%d updated=%d tickets_sold=%d",
				ev.Source, res.Added, res.Updated, stats.TicketsSold)
		}
	}
}
