// Package queue defines the reservation notification messages exchanged
// over RabbitMQ and the worker that consumes them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/model"
)

// NotificationQueue is the durable queue carrying reservation notifications.
const NotificationQueue = "reservation.notifications"

// Event types.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent tells the customer about a booking or a cancellation.
// It carries everything needed to render the message without querying
// the primary database.
type ReservationEvent struct {
	EventID        string  `json:"event_id"`
	Type           string  `json:"type"`
	ReservationID  uint64  `json:"reservation_id"`
	CustomerID     uint64  `json:"customer_id"`
	RestaurantID   uint64  `json:"restaurant_id"`
	TableID        uint64  `json:"table_id"`
	RestaurantName string  `json:"restaurant_name"`
	Address        string  `json:"address"`
	Date           string  `json:"reservation_date"`
	Time           string  `json:"reservation_time"`
	PartySize      int     `json:"party_size"`
	Status         string  `json:"status"`
	SpecialRequest *string `json:"special_request,omitempty"`
	OccurredAt     string  `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type from a reservation.
func NewReservationEvent(typ string, r model.ReservationDetail, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:        uuid.NewString(),
		Type:           typ,
		ReservationID:  r.ID,
		CustomerID:     r.CustomerID,
		RestaurantID:   r.RestaurantID,
		TableID:        r.TableID,
		RestaurantName: r.RestaurantName,
		Address:        formatAddress(r),
		Date:           r.Date,
		Time:           r.Time,
		PartySize:      r.PartySize,
		Status:         r.Status,
		SpecialRequest: r.SpecialRequest,
		OccurredAt:     at.UTC().Format(time.RFC3339),
	}
}

func formatAddress(r model.ReservationDetail) string {
	addr := r.AddressLine1
	if r.AddressLine2 != nil && *r.AddressLine2 != "" {
		addr += ", " + *r.AddressLine2
	}
	if r.City != "" {
		addr += ", " + r.City
	}
	if r.State != "" || r.ZipCode != "" {
		addr += ", " + r.State + " " + r.ZipCode
	}
	return addr
}
