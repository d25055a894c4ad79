package booking

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/model"
)

// AvailabilityStore is the read and write surface the availability and
// booking operations need from storage.
type AvailabilityStore interface {
	// GetApprovedRestaurant returns repository.ErrRestaurantNotFound for
	// missing or unapproved restaurants.
	GetApprovedRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error)
	// GetOperatingHours returns nil, nil when the day has no hours.
	GetOperatingHours(ctx context.Context, restaurantID uint64, weekday string) (*model.OperatingHours, error)
	// GetTablesByCapacity returns tables with capacity >= minCapacity,
	// ascending by capacity.
	GetTablesByCapacity(ctx context.Context, restaurantID uint64, minCapacity int) ([]model.Table, error)
	// GetActiveReservations returns pending/confirmed reservations of the
	// tables at exactly date and time.
	GetActiveReservations(ctx context.Context, tableIDs []uint64, date, tm string) ([]model.Reservation, error)
	// InsertReservation persists the reservation atomically.  It returns
	// repository.ErrSlotTaken when a uniqueness constraint rejects it.
	InsertReservation(ctx context.Context, res *model.Reservation) (*model.ReservationDetail, error)
}

// ReservationStore covers the reservation lifecycle after booking.
type ReservationStore interface {
	GetReservationDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error)
	UpdateReservation(ctx context.Context, id uint64, status, specialRequest *string) (*model.Reservation, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error)
	ListByRestaurantDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error)
	IsManagedBy(ctx context.Context, restaurantID, userID uint64) (bool, error)
}

// Store is everything the engine reads from and writes to.
type Store interface {
	AvailabilityStore
	ReservationStore
}

// Notifier delivers customer notifications.  Implementations may be slow
// or fail; the engine calls them off the request path and only logs
// errors.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, r model.ReservationDetail) error
	ReservationCancelled(ctx context.Context, r model.ReservationDetail) error
}

// SlotLocker serializes bookings of one table slot across processes.
// Acquire returns ErrSlotLocked when the slot is held by someone else.
// The release function must be safe to call once.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
