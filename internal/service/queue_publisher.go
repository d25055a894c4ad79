// Package service holds adapters that connect the booking engine to
// external collaborators.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
)

const dialTimeout = 5 * time.Second

// PublishFunc sends one message to the notification queue.
type PublishFunc func(ctx context.Context, msg amqp.Publishing) error

// QueuePublisher delivers reservation notifications by publishing
// ReservationEvents to RabbitMQ.  It implements booking.Notifier.
type QueuePublisher struct {
	publish PublishFunc
	log     *zap.Logger
	now     func() time.Time
}

// NewQueuePublisher publishes to the broker at url.
func NewQueuePublisher(url string, log *zap.Logger) *QueuePublisher {
	return NewQueuePublisherFunc(DialPublish(url), log)
}

// NewQueuePublisherFunc publishes through fn.
func NewQueuePublisherFunc(fn PublishFunc, log *zap.Logger) *QueuePublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueuePublisher{publish: fn, log: log, now: time.Now}
}

// ReservationConfirmed publishes a reservation.confirmed event.
func (p *QueuePublisher) ReservationConfirmed(ctx context.Context, r model.ReservationDetail) error {
	return p.send(ctx, queue.EventReservationConfirmed, r)
}

// ReservationCancelled publishes a reservation.cancelled event.
func (p *QueuePublisher) ReservationCancelled(ctx context.Context, r model.ReservationDetail) error {
	return p.send(ctx, queue.EventReservationCancelled, r)
}

func (p *QueuePublisher) send(ctx context.Context, typ string, r model.ReservationDetail) error {
	now := p.now()
	ev := queue.NewReservationEvent(typ, r, now)
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         typ,
		Timestamp:    now.UTC(),
		Body:         body,
	}
	if err := p.publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", typ, err)
	}
	p.log.Debug("notification published",
		zap.String("type", typ),
		zap.String("event_id", ev.EventID),
		zap.Uint64("reservation_id", r.ID))
	return nil
}

// DialPublish returns a PublishFunc that opens a connection per message,
// declares the durable NotificationQueue and publishes to it through the
// default exchange.
func DialPublish(url string) PublishFunc {
	return func(ctx context.Context, msg amqp.Publishing) error {
		conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		if err != nil {
			return fmt.Errorf("dial: %w", err)
		}
		defer func() { _ = conn.Close() }()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("channel open: %w", err)
		}
		defer func() { _ = ch.Close() }()

		if _, err := ch.QueueDeclare(queue.NotificationQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare: %w", err)
		}
		return ch.PublishWithContext(ctx, "", queue.NotificationQueue, false, false, msg)
	}
}
