package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func threeTables(_ context.Context, _ uint64, minCapacity int) ([]model.Table, error) {
	all := []model.Table{{ID: 1, Capacity: 2}, {ID: 2, Capacity: 4}, {ID: 3, Capacity: 6}}
	out := []model.Table{}
	for _, t := range all {
		if t.Capacity >= minCapacity {
			out = append(out, t)
		}
	}
	return out, nil
}

func mondayHours(_ context.Context, id uint64, weekday string) (*model.OperatingHours, error) {
	if weekday != "Monday" {
		return nil, nil
	}
	return &model.OperatingHours{RestaurantID: id, DayOfWeek: weekday, OpeningTime: "11:00", ClosingTime: "22:00"}, nil
}

// bookedAt books every requested table at the given times.
func bookedAt(times ...string) func(context.Context, []uint64, string, string) ([]model.Reservation, error) {
	full := map[string]bool{}
	for _, tm := range times {
		full[tm] = true
	}
	return func(_ context.Context, ids []uint64, date, tm string) ([]model.Reservation, error) {
		if !full[tm] {
			return nil, nil
		}
		out := make([]model.Reservation, 0, len(ids))
		for _, id := range ids {
			out = append(out, model.Reservation{TableID: id, Date: date, Time: tm, Status: model.StatusConfirmed})
		}
		return out, nil
	}
}

func TestCheckAvailabilityFree(t *testing.T) {
	var hoursCalls int
	store := fakeStore{
		tablesFn: threeTables,
		hoursFn: func(ctx context.Context, id uint64, wd string) (*model.OperatingHours, error) {
			hoursCalls++
			return mondayHours(ctx, id, wd)
		},
		activeFn: func(_ context.Context, ids []uint64, date, tm string) ([]model.Reservation, error) {
			return []model.Reservation{{TableID: 2, Status: model.StatusConfirmed}}, nil
		},
	}
	e := New(store, Options{})

	got, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-02", Time: "13:00", PartySize: 2})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !got.Available || got.AvailableTableCount != 2 {
		t.Fatalf("got %+v, want available with 2 tables", got)
	}
	if got.AlternativeSlots == nil || len(got.AlternativeSlots) != 0 {
		t.Fatalf("alternative slots = %#v, want empty non-nil", got.AlternativeSlots)
	}
	if hoursCalls != 0 {
		t.Fatalf("operating hours looked up %d times for an available slot", hoursCalls)
	}
}

func TestCheckAvailabilityAlternatives(t *testing.T) {
	var queried []string
	booked := bookedAt("13:00", "11:30", "14:30")
	store := fakeStore{
		tablesFn: threeTables,
		hoursFn:  mondayHours,
		activeFn: func(ctx context.Context, ids []uint64, date, tm string) ([]model.Reservation, error) {
			if len(ids) != 3 {
				t.Errorf("conflict check over %d tables, want 3", len(ids))
			}
			queried = append(queried, tm)
			return booked(ctx, ids, date, tm)
		},
	}
	e := New(store, Options{})

	got, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-02", Time: "13:00", PartySize: 2})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.Available || got.AvailableTableCount != 0 {
		t.Fatalf("got %+v, want unavailable", got)
	}
	wantQueried := []string{"13:00", "11:00", "11:30", "12:00", "12:30", "13:30", "14:00", "14:30", "15:00"}
	if !reflect.DeepEqual(queried, wantQueried) {
		t.Fatalf("queried %v, want %v", queried, wantQueried)
	}
	wantSlots := []string{"11:00", "12:00", "12:30", "13:30", "14:00", "15:00"}
	if !reflect.DeepEqual(got.AlternativeSlots, wantSlots) {
		t.Fatalf("alternatives = %v, want %v", got.AlternativeSlots, wantSlots)
	}
}

func TestCheckAvailabilityClosedDay(t *testing.T) {
	calls := 0
	store := fakeStore{
		tablesFn: threeTables,
		hoursFn:  mondayHours,
		activeFn: func(ctx context.Context, ids []uint64, date, tm string) ([]model.Reservation, error) {
			calls++
			return bookedAt("13:00")(ctx, ids, date, tm)
		},
	}
	e := New(store, Options{})

	// 2025-06-01 is a Sunday.
	got, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-01", Time: "13:00", PartySize: 2})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.Available || len(got.AlternativeSlots) != 0 {
		t.Fatalf("got %+v, want unavailable without alternatives", got)
	}
	if calls != 1 {
		t.Fatalf("conflict checks = %d, want 1", calls)
	}
}

func TestCheckAvailabilityNoTableForParty(t *testing.T) {
	calls := 0
	store := fakeStore{
		tablesFn: func(_ context.Context, _ uint64, minCapacity int) ([]model.Table, error) {
			if minCapacity > 10 {
				return []model.Table{}, nil
			}
			return []model.Table{{ID: 1, Capacity: 10}}, nil
		},
		activeFn: func(context.Context, []uint64, string, string) ([]model.Reservation, error) {
			calls++
			return nil, nil
		},
	}
	e := New(store, Options{})

	got, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-02", Time: "13:00", PartySize: 12})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.Available || got.Message != MsgNoTablesForParty || len(got.AlternativeSlots) != 0 {
		t.Fatalf("got %+v", got)
	}
	if calls != 0 {
		t.Fatalf("conflict checks = %d, want 0", calls)
	}
}

func TestCheckAvailabilityInactiveReservationsDoNotBlock(t *testing.T) {
	store := fakeStore{
		tablesFn: threeTables,
		activeFn: func(context.Context, []uint64, string, string) ([]model.Reservation, error) {
			return []model.Reservation{
				{TableID: 1, Status: model.StatusCancelled},
				{TableID: 2, Status: model.StatusCompleted},
				{TableID: 3, Status: model.StatusPending},
			}, nil
		},
	}
	e := New(store, Options{})

	got, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-02", Time: "19:00", PartySize: 1})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if got.AvailableTableCount != 2 {
		t.Fatalf("available tables = %d, want 2", got.AvailableTableCount)
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	touched := false
	store := fakeStore{
		restaurantFn: func(context.Context, uint64) (*model.Restaurant, error) {
			touched = true
			return nil, nil
		},
	}
	e := New(store, Options{})

	bad := []AvailabilityQuery{
		{Date: "2025-06-02", Time: "13:00", PartySize: 2},
		{RestaurantID: 5, Time: "13:00", PartySize: 2},
		{RestaurantID: 5, Date: "2025-06-02", PartySize: 2},
		{RestaurantID: 5, Date: "2025-06-02", Time: "13:00"},
		{RestaurantID: 5, Date: "06/02/2025", Time: "13:00", PartySize: 2},
		{RestaurantID: 5, Date: "2025-06-02", Time: "1pm", PartySize: 2},
	}
	for _, q := range bad {
		if _, err := e.CheckAvailability(context.Background(), q); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("CheckAvailability(%+v) error = %v, want ErrInvalidRequest", q, err)
		}
	}
	if touched {
		t.Fatal("storage accessed for an invalid request")
	}
}

func TestCheckAvailabilityRestaurantNotFound(t *testing.T) {
	store := fakeStore{
		restaurantFn: func(context.Context, uint64) (*model.Restaurant, error) {
			return nil, repository.ErrRestaurantNotFound
		},
	}
	e := New(store, Options{})

	_, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 9, Date: "2025-06-02", Time: "13:00", PartySize: 2})
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Fatalf("error = %v, want ErrRestaurantNotFound", err)
	}
}

func TestCheckAvailabilityStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	store := fakeStore{
		tablesFn: threeTables,
		activeFn: func(context.Context, []uint64, string, string) ([]model.Reservation, error) {
			return nil, boom
		},
	}
	e := New(store, Options{})

	_, err := e.CheckAvailability(context.Background(), AvailabilityQuery{RestaurantID: 5, Date: "2025-06-02", Time: "13:00", PartySize: 2})
	if !errors.Is(err, ErrStorage) || !errors.Is(err, boom) {
		t.Fatalf("error = %v, want ErrStorage wrapping cause", err)
	}
}
