package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// ReservationRequest is a customer's booking request.
type ReservationRequest struct {
	RestaurantID   uint64
	CustomerID     uint64
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
	PartySize      int
	SpecialRequest *string
}

func (r ReservationRequest) validate() error {
	if r.CustomerID == 0 {
		return invalid("customer is required")
	}
	if r.RestaurantID == 0 {
		return invalid("restaurant_id is required")
	}
	if r.Date == "" || r.Time == "" {
		return invalid("reservation_date and reservation_time are required")
	}
	if r.PartySize < 1 {
		return invalid("party_size must be at least 1")
	}
	if _, err := parseDate(r.Date); err != nil {
		return err
	}
	if _, _, err := parseClock(r.Time); err != nil {
		return err
	}
	return nil
}

// SlotKey identifies one table slot for locking.
func SlotKey(tableID uint64, date, tm string) string {
	return fmt.Sprintf("slot:%d:%s:%s", tableID, date, tm)
}

// CreateReservation books the smallest table that seats the party.  Only
// that table is considered: if it is taken at the requested slot the
// request fails with ErrSlotUnavailable even when a larger table is free.
// The reservation is stored as confirmed and a confirmation is sent in
// the background.
func (e *Engine) CreateReservation(ctx context.Context, req ReservationRequest) (_ *model.ReservationDetail, err error) {
	ctx, span := e.tracer.Start(ctx, "booking.CreateReservation", trace.WithAttributes(
		attribute.Int64("restaurant.id", int64(req.RestaurantID)),
		attribute.Int64("customer.id", int64(req.CustomerID)),
		attribute.String("reservation.date", req.Date),
		attribute.String("reservation.time", req.Time),
		attribute.Int("party.size", req.PartySize),
	))
	defer func() { endSpan(span, err) }()

	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.SpecialRequest != nil && strings.TrimSpace(*req.SpecialRequest) == "" {
		req.SpecialRequest = nil
	}

	if _, err := e.approvedRestaurant(ctx, req.RestaurantID); err != nil {
		return nil, err
	}
	tables, err := e.candidateTables(ctx, req.RestaurantID, req.PartySize)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoSuitableTable
	}
	table := tables[0]
	span.SetAttributes(attribute.Int64("table.id", int64(table.ID)))

	release, err := e.lockSlot(ctx, table.ID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	defer release()

	free, err := e.freeTableCount(ctx, []model.Table{table}, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if free == 0 {
		return nil, ErrSlotUnavailable
	}

	detail, err := e.store.InsertReservation(ctx, &model.Reservation{
		CustomerID:     req.CustomerID,
		RestaurantID:   req.RestaurantID,
		TableID:        table.ID,
		Date:           req.Date,
		Time:           req.Time,
		PartySize:      req.PartySize,
		Status:         model.StatusConfirmed,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, storageErr("insert reservation", err)
	}

	e.log.Info("reservation created",
		zap.Uint64("reservation_id", detail.ID),
		zap.Uint64("restaurant_id", detail.RestaurantID),
		zap.Uint64("table_id", detail.TableID),
		zap.String("date", detail.Date),
		zap.String("time", detail.Time),
	)
	if e.notifier != nil {
		e.notify(ctx, "confirmation", *detail, e.notifier.ReservationConfirmed)
	}
	return detail, nil
}

// lockSlot takes the optional cross-process slot lock.  A slot held by
// another request is unavailable; a failing lock backend is logged and
// the booking continues without the lock.
func (e *Engine) lockSlot(ctx context.Context, tableID uint64, date, tm string) (func(), error) {
	noop := func() {}
	if e.locker == nil {
		return noop, nil
	}
	release, err := e.locker.Acquire(ctx, SlotKey(tableID, date, tm))
	switch {
	case err == nil:
		if release == nil {
			release = noop
		}
		return release, nil
	case errors.Is(err, ErrSlotLocked):
		return nil, ErrSlotUnavailable
	default:
		e.log.Warn("slot lock unavailable, booking without lock",
			zap.Uint64("table_id", tableID), zap.Error(err))
		return noop, nil
	}
}
