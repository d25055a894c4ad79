// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking engine to distinguish between different failure scenarios
// without inspecting driver errors.
package repository

import "errors"

// ErrRestaurantNotFound is returned when a restaurant does not exist or
// has not been approved yet.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrReservationNotFound is returned when a reservation lookup or update
// matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotTaken is returned when an insert or update collides with the
// unique index on active table slots.  It only surfaces when the schema
// was migrated with the unique active slot option.
var ErrSlotTaken = errors.New("table slot already taken")
