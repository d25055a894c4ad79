package booking

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MsgNoTablesForParty is reported when no table seats the party.
const MsgNoTablesForParty = "No tables available for this party size"

// AvailabilityQuery asks whether a party can be seated at a slot.
type AvailabilityQuery struct {
	RestaurantID uint64
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	PartySize    int
}

// Availability is the answer to an AvailabilityQuery.
type Availability struct {
	Available           bool     `json:"available"`
	AvailableTableCount int      `json:"available_table_count"`
	AlternativeSlots    []string `json:"alternative_slots"`
	Message             string   `json:"message,omitempty"`
}

func (q AvailabilityQuery) validate() error {
	if q.RestaurantID == 0 {
		return invalid("restaurant_id is required")
	}
	if q.Date == "" || q.Time == "" {
		return invalid("date and time are required")
	}
	if q.PartySize < 1 {
		return invalid("party_size must be at least 1")
	}
	if _, err := parseDate(q.Date); err != nil {
		return err
	}
	if _, _, err := parseClock(q.Time); err != nil {
		return err
	}
	return nil
}

// CheckAvailability counts the free tables that seat the party at the
// requested slot.  When none are free it searches the surrounding slots
// within the day's operating hours.  It never writes.
func (e *Engine) CheckAvailability(ctx context.Context, q AvailabilityQuery) (_ *Availability, err error) {
	ctx, span := e.tracer.Start(ctx, "booking.CheckAvailability", trace.WithAttributes(
		attribute.Int64("restaurant.id", int64(q.RestaurantID)),
		attribute.String("reservation.date", q.Date),
		attribute.String("reservation.time", q.Time),
		attribute.Int("party.size", q.PartySize),
	))
	defer func() { endSpan(span, err) }()

	if err := q.validate(); err != nil {
		return nil, err
	}
	day, _ := parseDate(q.Date)

	if _, err := e.approvedRestaurant(ctx, q.RestaurantID); err != nil {
		return nil, err
	}
	tables, err := e.candidateTables(ctx, q.RestaurantID, q.PartySize)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return &Availability{AlternativeSlots: []string{}, Message: MsgNoTablesForParty}, nil
	}

	free, err := e.freeTableCount(ctx, tables, q.Date, q.Time)
	if err != nil {
		return nil, err
	}
	res := &Availability{
		Available:           free > 0,
		AvailableTableCount: free,
		AlternativeSlots:    []string{},
	}
	if res.Available {
		return res, nil
	}

	hours, err := e.store.GetOperatingHours(ctx, q.RestaurantID, weekdayName(day))
	if err != nil {
		return nil, storageErr("get operating hours", err)
	}
	if hours == nil {
		return res, nil
	}
	// One round-trip per candidate, in order.
	for _, slot := range AlternativeSlotTimes(q.Time, hours.OpeningTime, hours.ClosingTime) {
		n, err := e.freeTableCount(ctx, tables, q.Date, slot)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			res.AlternativeSlots = append(res.AlternativeSlots, slot)
		}
	}
	span.SetAttributes(attribute.Int("alternatives", len(res.AlternativeSlots)))
	return res, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
