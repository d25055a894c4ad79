package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
)

func TestQueuePublisherEvents(t *testing.T) {
	var sent []amqp.Publishing
	p := NewQueuePublisherFunc(func(_ context.Context, msg amqp.Publishing) error {
		sent = append(sent, msg)
		return nil
	}, nil)
	p.now = func() time.Time { return time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC) }

	r := model.ReservationDetail{
		Reservation:    model.Reservation{ID: 77, CustomerID: 42, Date: "2025-06-01", Time: "19:00", PartySize: 2},
		RestaurantName: "Trattoria",
	}
	if err := p.ReservationConfirmed(context.Background(), r); err != nil {
		t.Fatalf("ReservationConfirmed: %v", err)
	}
	if err := p.ReservationCancelled(context.Background(), r); err != nil {
		t.Fatalf("ReservationCancelled: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d messages", len(sent))
	}

	for i, want := range []string{queue.EventReservationConfirmed, queue.EventReservationCancelled} {
		msg := sent[i]
		if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" || msg.Type != want {
			t.Fatalf("message %d = %+v", i, msg)
		}
		var ev queue.ReservationEvent
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != want || ev.ReservationID != 77 || ev.EventID != msg.MessageId || ev.OccurredAt != "2025-05-30T12:00:00Z" {
			t.Fatalf("event %d = %+v", i, ev)
		}
	}
}

func TestQueuePublisherError(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewQueuePublisherFunc(func(context.Context, amqp.Publishing) error { return boom }, nil)
	if err := p.ReservationConfirmed(context.Background(), model.ReservationDetail{}); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
}
