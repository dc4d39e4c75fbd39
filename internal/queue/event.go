// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/bluemoon1528/clusters/internal/model"

// SnapshotExchange is the fanout exchange carrying booking snapshots. Every
// writer publishes the full current state of its bookings collection after a
// change; every storefront instance binds its own queue and merges whatever
// arrives. Snapshots are full state, not deltas, which is what makes the
// insert-only merge safe to replay.
const SnapshotExchange = "bookings.snapshot"

// SnapshotEvent is one delivery on the snapshot exchange.
type SnapshotEvent struct {
	Source   string          `json:"source"`   // instance that produced the snapshot
	SentAt   string          `json:"sent_at"`  // RFC3339 publish time
	Bookings []model.Booking `json:"bookings"` // full collection state
}
