package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/queue"
)

// fakeListen stands in for the broker consumer: it delivers the prepared
// events, then blocks until the subscription is cancelled.
func fakeListen(events ...queue.SnapshotEvent) func(ctx context.Context, out chan<- queue.SnapshotEvent) error {
	return func(ctx context.Context, out chan<- queue.SnapshotEvent) error {
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

func TestSyncerEnableDisable(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	y := NewSyncer(svc)
	y.listen = fakeListen()

	assert.False(t, y.Enabled())
	assert.True(t, y.Enable())
	assert.False(t, y.Enable(), "enabling twice is a no-op")
	assert.True(t, y.Enabled())

	y.Disable()
	assert.False(t, y.Enabled())
	y.Disable() // idempotent
}

func TestSyncerDiscardsSnapshotsBufferedAtDisable(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	y := NewSyncer(svc)

	// A delivery can be sitting in the channel buffer when the
	// subscription is cancelled; it must be drained, never merged.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events := make(chan queue.SnapshotEvent, 1)
	events <- queue.SnapshotEvent{
		Source:   "other-storefront",
		Bookings: []model.Booking{{ID: "TKT1700000000000ABCDE", TicketCount: 2}},
	}
	close(events)

	y.run(ctx, events)
	assert.Empty(t, svc.Bookings(), "no merge may run once the feed is disabled")
}

func TestSyncerMergesDeliveredSnapshots(t *testing.T) {
	svc, _ := newTestService(t, new(mockRemote))
	remote := model.Booking{
		ID:          "TKT1700000000000ABCDE",
		MovieName:   "Sci-Fi Adventure",
		ShowType:    model.ShowTypeClusterPreview,
		TicketCount: 2,
		Total:       4720,
	}
	y := NewSyncer(svc)
	y.listen = fakeListen(queue.SnapshotEvent{
		Source:   "other-storefront",
		Bookings: []model.Booking{remote},
	})

	require.True(t, y.Enable())
	defer y.Disable()

	require.Eventually(t, func() bool {
		return len(svc.Bookings()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, remote.ID, svc.Bookings()[0].ID)
	assert.Equal(t, 2, svc.Stats().TicketsSold)
}
