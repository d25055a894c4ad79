package model

import "time"

// Reservation statuses.  Pending and confirmed reservations hold their
// table; completed and cancelled ones never block a slot.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ActiveStatuses lists the statuses that occupy a table slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reservation records a customer's booking of one table at one
// restaurant for a date and time of day.
//
// Fields:
//  ID             – primary key identifier.
//  CustomerID     – user who made the reservation.
//  RestaurantID   – restaurant being booked.
//  TableID        – table assigned by the booking engine.
//  Date           – calendar date, "YYYY-MM-DD".
//  Time           – wall-clock time, "HH:MM" (24h).
//  PartySize      – number of guests.
//  Status         – pending, confirmed, completed or cancelled.
//  SpecialRequest – optional free text from the customer.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID             uint64    `db:"id" json:"id"`                             // reservations.id
	CustomerID     uint64    `db:"customer_id" json:"customer_id"`           // reservations.customer_id
	RestaurantID   uint64    `db:"restaurant_id" json:"restaurant_id"`       // reservations.restaurant_id
	TableID        uint64    `db:"table_id" json:"table_id"`                 // reservations.table_id
	Date           string    `db:"reservation_date" json:"reservation_date"` // reservations.reservation_date
	Time           string    `db:"reservation_time" json:"reservation_time"` // reservations.reservation_time
	PartySize      int       `db:"party_size" json:"party_size"`             // reservations.party_size
	Status         string    `db:"status" json:"status"`                     // reservations.status
	SpecialRequest *string   `db:"special_request" json:"special_request"`   // reservations.special_request (nullable)
	CreatedAt      time.Time `db:"created_at" json:"created_at"`             // reservations.created_at
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`             // reservations.updated_at
}

// IsActive reports whether the reservation occupies its table slot.
func (r Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal reports whether the reservation has reached a final status.
func (r Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// ReservationDetail is a reservation joined with the display fields of its
// restaurant.  It is what customers get back after booking and when they
// list their reservations.  ManagerID is used for authorization only and
// is never serialized.
type ReservationDetail struct {
	Reservation
	RestaurantName string  `db:"restaurant_name" json:"restaurant_name"`
	AddressLine1   string  `db:"address_line1" json:"address_line1"`
	AddressLine2   *string `db:"address_line2" json:"address_line2"`
	City           string  `db:"city" json:"city"`
	State          string  `db:"state" json:"state"`
	ZipCode        string  `db:"zip_code" json:"zip_code"`
	ManagerID      uint64  `db:"manager_id" json:"-"`
}
