package booking

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// Roles known to the engine.
const (
	RoleCustomer          = "customer"
	RoleRestaurantManager = "restaurant_manager"
	RoleAdmin             = "admin"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID uint64
	Role   string
}

func (a Actor) isAdmin() bool { return a.Role == RoleAdmin }

// ReservationUpdate carries the fields to change.  Nil fields are left
// untouched.
type ReservationUpdate struct {
	Status         *string
	SpecialRequest *string
}

// UpdateReservation changes the status and/or special request of a
// reservation.  The customer who booked, the restaurant's manager and
// admins may update it.  Completed and cancelled reservations keep their
// status.  Moving into cancelled sends a cancellation notice.
func (e *Engine) UpdateReservation(ctx context.Context, actor Actor, id uint64, upd ReservationUpdate) (_ *model.ReservationDetail, err error) {
	ctx, span := e.tracer.Start(ctx, "booking.UpdateReservation", trace.WithAttributes(
		attribute.Int64("reservation.id", int64(id)),
		attribute.Int64("actor.id", int64(actor.UserID)),
		attribute.String("actor.role", actor.Role),
	))
	defer func() { endSpan(span, err) }()

	if id == 0 {
		return nil, invalid("reservation id is required")
	}
	if upd.Status == nil && upd.SpecialRequest == nil {
		return nil, invalid("no fields to update")
	}
	if upd.Status != nil && !model.ValidStatus(*upd.Status) {
		return nil, invalid("unknown status %q", *upd.Status)
	}

	current, err := e.store.GetReservationDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storageErr("get reservation", err)
	}
	if !actor.isAdmin() && actor.UserID != current.CustomerID && actor.UserID != current.ManagerID {
		return nil, ErrForbidden
	}

	statusChange := upd.Status != nil && *upd.Status != current.Status
	if statusChange && current.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	status := upd.Status
	if !statusChange {
		status = nil
		if upd.SpecialRequest == nil {
			return current, nil
		}
	}

	updated, err := e.store.UpdateReservation(ctx, id, status, upd.SpecialRequest)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrSlotUnavailable
		}
		return nil, storageErr("update reservation", err)
	}
	detail := *current
	detail.Reservation = *updated

	if statusChange {
		e.log.Info("reservation status changed",
			zap.Uint64("reservation_id", id),
			zap.String("from", current.Status),
			zap.String("to", detail.Status),
			zap.Uint64("by", actor.UserID),
		)
	}
	if statusChange && detail.Status == model.StatusCancelled && e.notifier != nil {
		e.notify(ctx, "cancellation", detail, e.notifier.ReservationCancelled)
	}
	return &detail, nil
}

// CancelReservation is UpdateReservation with status cancelled.
func (e *Engine) CancelReservation(ctx context.Context, actor Actor, id uint64) (*model.ReservationDetail, error) {
	status := model.StatusCancelled
	return e.UpdateReservation(ctx, actor, id, ReservationUpdate{Status: &status})
}

// ListCustomerReservations returns the customer's reservations, newest first.
func (e *Engine) ListCustomerReservations(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	if customerID == 0 {
		return nil, invalid("customer is required")
	}
	list, err := e.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, storageErr("list customer reservations", err)
	}
	if list == nil {
		list = []model.ReservationDetail{}
	}
	return list, nil
}

// ListRestaurantReservations returns one day of a restaurant's
// reservations ordered by time.  An empty date means today.  Only admins
// and the restaurant's manager may list.
func (e *Engine) ListRestaurantReservations(ctx context.Context, actor Actor, restaurantID uint64, date string) ([]model.Reservation, error) {
	if restaurantID == 0 {
		return nil, invalid("restaurant id is required")
	}
	if date == "" {
		date = e.now().Format(dateLayout)
	} else if _, err := parseDate(date); err != nil {
		return nil, err
	}

	if !actor.isAdmin() {
		if actor.Role != RoleRestaurantManager {
			return nil, ErrForbidden
		}
		ok, err := e.store.IsManagedBy(ctx, restaurantID, actor.UserID)
		if err != nil {
			return nil, storageErr("check restaurant manager", err)
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	list, err := e.store.ListByRestaurantDate(ctx, restaurantID, date)
	if err != nil {
		return nil, storageErr("list restaurant reservations", err)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	return list, nil
}
