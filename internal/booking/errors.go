package booking

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine.  Callers match them with errors.Is;
// the HTTP layer maps each kind to a status code.
var (
	// ErrInvalidRequest: a required parameter is missing or malformed.
	// No storage access happens before this is returned.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRestaurantNotFound: the restaurant does not exist or is not approved.
	ErrRestaurantNotFound = errors.New("restaurant not found or not approved")
	// ErrNoSuitableTable: no table of the restaurant seats the party.
	ErrNoSuitableTable = errors.New("no suitable table for party size")
	// ErrSlotUnavailable: the assigned table is already booked at that time.
	ErrSlotUnavailable = errors.New("requested time slot is not available")
	// ErrStorage wraps every data-access failure.
	ErrStorage = errors.New("storage error")
	// ErrReservationNotFound: no reservation with the given ID.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrForbidden: the actor may not read or change the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition: the reservation already reached a final status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrSlotLocked is returned by a SlotLocker when another request holds
	// the slot.
	ErrSlotLocked = errors.New("slot locked")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
