package booking

import (
	"context"
	"sync"

	"github.com/iliyamo/table-reservation/internal/model"
)

type fakeStore struct {
	restaurantFn   func(ctx context.Context, id uint64) (*model.Restaurant, error)
	hoursFn        func(ctx context.Context, restaurantID uint64, weekday string) (*model.OperatingHours, error)
	tablesFn       func(ctx context.Context, restaurantID uint64, minCapacity int) ([]model.Table, error)
	activeFn       func(ctx context.Context, tableIDs []uint64, date, tm string) ([]model.Reservation, error)
	insertFn       func(ctx context.Context, res *model.Reservation) (*model.ReservationDetail, error)
	detailFn       func(ctx context.Context, id uint64) (*model.ReservationDetail, error)
	updateFn       func(ctx context.Context, id uint64, status, specialRequest *string) (*model.Reservation, error)
	byCustomerFn   func(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error)
	byRestaurantFn func(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error)
	managedByFn    func(ctx context.Context, restaurantID, userID uint64) (bool, error)
}

func (f fakeStore) GetApprovedRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error) {
	if f.restaurantFn == nil {
		return &model.Restaurant{ID: id, IsApproved: true}, nil
	}
	return f.restaurantFn(ctx, id)
}

func (f fakeStore) GetOperatingHours(ctx context.Context, restaurantID uint64, weekday string) (*model.OperatingHours, error) {
	if f.hoursFn == nil {
		return nil, nil
	}
	return f.hoursFn(ctx, restaurantID, weekday)
}

func (f fakeStore) GetTablesByCapacity(ctx context.Context, restaurantID uint64, minCapacity int) ([]model.Table, error) {
	if f.tablesFn == nil {
		return nil, nil
	}
	return f.tablesFn(ctx, restaurantID, minCapacity)
}

func (f fakeStore) GetActiveReservations(ctx context.Context, tableIDs []uint64, date, tm string) ([]model.Reservation, error) {
	if f.activeFn == nil {
		return nil, nil
	}
	return f.activeFn(ctx, tableIDs, date, tm)
}

func (f fakeStore) InsertReservation(ctx context.Context, res *model.Reservation) (*model.ReservationDetail, error) {
	if f.insertFn == nil {
		r := *res
		r.ID = 1
		return &model.ReservationDetail{Reservation: r}, nil
	}
	return f.insertFn(ctx, res)
}

func (f fakeStore) GetReservationDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	if f.detailFn == nil {
		return nil, nil
	}
	return f.detailFn(ctx, id)
}

func (f fakeStore) UpdateReservation(ctx context.Context, id uint64, status, specialRequest *string) (*model.Reservation, error) {
	if f.updateFn == nil {
		return nil, nil
	}
	return f.updateFn(ctx, id, status, specialRequest)
}

func (f fakeStore) ListByCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	if f.byCustomerFn == nil {
		return nil, nil
	}
	return f.byCustomerFn(ctx, customerID)
}

func (f fakeStore) ListByRestaurantDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error) {
	if f.byRestaurantFn == nil {
		return nil, nil
	}
	return f.byRestaurantFn(ctx, restaurantID, date)
}

func (f fakeStore) IsManagedBy(ctx context.Context, restaurantID, userID uint64) (bool, error) {
	if f.managedByFn == nil {
		return false, nil
	}
	return f.managedByFn(ctx, restaurantID, userID)
}

// recordingNotifier records deliveries and can be told to fail.
type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []model.ReservationDetail
	cancelled []model.ReservationDetail
	err       error
}

func (n *recordingNotifier) ReservationConfirmed(_ context.Context, r model.ReservationDetail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, r)
	return n.err
}

func (n *recordingNotifier) ReservationCancelled(_ context.Context, r model.ReservationDetail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, r)
	return n.err
}

type fakeLocker struct {
	acquireFn func(ctx context.Context, key string) (func(), error)
}

func (l fakeLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return l.acquireFn(ctx, key)
}

func strPtr(s string) *string { return &s }
