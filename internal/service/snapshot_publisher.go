// Package snapshot_publisher publishes booking snapshots to the message
// broker. Errors are logged and returned so callers can treat the publish as
// best-effort without interrupting the local write that triggered it.
package snapshot_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/bluemoon1528/clusters/internal/queue"
)

// PublishSnapshot sends a SnapshotEvent to the bookings.snapshot fanout
// exchange. The function attempts to be robust and to never panic; any
// error is logged and returned so the caller can choose to ignore it.
// Messages are marked as persistent.
func PublishSnapshot(ctx context.Context, event q.SnapshotEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the exchange exists (idempotent). Durable so it survives broker
	// restarts even though individual snapshots are superseded quickly.
	if err := ch.ExchangeDeclare(q.SnapshotExchange, "fanout", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: exchange declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		q.SnapshotExchange, // fanout exchange
		"",                 // routing key ignored by fanout
		false,              // mandatory
		false,              // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
