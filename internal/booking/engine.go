// Package booking is the availability and booking engine.  It decides
// whether a restaurant can seat a party at a given date and time, suggests
// nearby alternative times when it cannot, and assigns tables when a
// customer books.  The engine keeps no state between calls: storage is
// the single source of truth.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

const tracerName = "github.com/iliyamo/table-reservation/internal/booking"

// DefaultNotifyTimeout bounds a single notification send.
const DefaultNotifyTimeout = 10 * time.Second

// Options configure optional collaborators of the engine.  Every field
// may be left zero.
type Options struct {
	Notifier      Notifier
	Locker        SlotLocker
	Logger        *zap.Logger
	Tracer        trace.Tracer
	NotifyTimeout time.Duration
	// Now is the clock used for defaults such as "today".
	Now func() time.Time
}

// Engine implements availability checks, bookings and the reservation
// lifecycle on top of a Store.
type Engine struct {
	store         Store
	notifier      Notifier
	locker        SlotLocker
	log           *zap.Logger
	tracer        trace.Tracer
	notifyTimeout time.Duration
	now           func() time.Time

	wg sync.WaitGroup
}

// New builds an Engine.  The store is required.
func New(store Store, opts Options) *Engine {
	if store == nil {
		panic("nil store passed to booking.New")
	}
	e := &Engine{
		store:         store,
		notifier:      opts.Notifier,
		locker:        opts.Locker,
		log:           opts.Logger,
		tracer:        opts.Tracer,
		notifyTimeout: opts.NotifyTimeout,
		now:           opts.Now,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.notifyTimeout <= 0 {
		e.notifyTimeout = DefaultNotifyTimeout
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Wait blocks until all in-flight notifications have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// notify runs send in the background with its own deadline.  The request
// context is detached so a client disconnect does not abort delivery.
// Failures are logged and never reach the caller.
func (e *Engine) notify(ctx context.Context, kind string, detail model.ReservationDetail, send func(context.Context, model.ReservationDetail) error) {
	if e.notifier == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(bg, e.notifyTimeout)
		defer cancel()
		if err := send(ctx, detail); err != nil {
			e.log.Warn("notification failed",
				zap.String("kind", kind),
				zap.Uint64("reservation_id", detail.ID),
				zap.Uint64("customer_id", detail.CustomerID),
				zap.Error(err),
			)
		}
	}()
}

// approvedRestaurant resolves the restaurant or returns ErrRestaurantNotFound.
func (e *Engine) approvedRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error) {
	rest, err := e.store.GetApprovedRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, storageErr("get restaurant", err)
	}
	if rest == nil || !rest.IsApproved {
		return nil, ErrRestaurantNotFound
	}
	return rest, nil
}

// candidateTables returns the tables that seat the party, smallest first.
func (e *Engine) candidateTables(ctx context.Context, restaurantID uint64, partySize int) ([]model.Table, error) {
	tables, err := e.store.GetTablesByCapacity(ctx, restaurantID, partySize)
	if err != nil {
		return nil, storageErr("get tables", err)
	}
	return tables, nil
}

// freeTableCount counts the tables with no active reservation at the slot.
func (e *Engine) freeTableCount(ctx context.Context, tables []model.Table, date, tm string) (int, error) {
	ids := make([]uint64, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	existing, err := e.store.GetActiveReservations(ctx, ids, date, tm)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("get reservations at %s %s", date, tm), err)
	}
	booked := make(map[uint64]struct{}, len(existing))
	for _, r := range existing {
		if r.IsActive() {
			booked[r.TableID] = struct{}{}
		}
	}
	free := 0
	for _, t := range tables {
		if _, ok := booked[t.ID]; !ok {
			free++
		}
	}
	return free, nil
}
