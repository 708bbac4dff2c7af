// Package service holds side-effecting collaborators that sit between
// handlers and external systems. The event publisher is best effort:
// errors are logged, never surfaced to the request that triggered them.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/syoh89/lipcoding-competition/internal/model"
	q "github.com/syoh89/lipcoding-competition/internal/queue"
)

// EventPublisher emits match lifecycle events to RabbitMQ.
type EventPublisher struct{}

func NewEventPublisher() *EventPublisher { return &EventPublisher{} }

// PublishMatchAccepted fires a match.accepted event in the background.
// The accept request has already committed by the time this runs, so a
// broker outage costs only the audit line, never the transition.
func (p *EventPublisher) PublishMatchAccepted(m model.MatchRequest) {
	ev := q.MatchAcceptedEvent{
		MatchRequestID: m.ID,
		MentorID:       m.MentorID,
		MenteeID:       m.MenteeID,
		AcceptedAt:     m.UpdatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publish(ctx, ev); err != nil {
			log.Printf("publisher: match.accepted event dropped: %v", err)
		}
	}()
}

func publish(ctx context.Context, ev q.MatchAcceptedEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.MatchQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",               // default exchange
		q.MatchQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
