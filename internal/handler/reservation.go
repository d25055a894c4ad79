package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// ReservationService is the booking engine as seen by the HTTP layer.
type ReservationService interface {
	CheckAvailability(ctx context.Context, q booking.AvailabilityQuery) (*booking.Availability, error)
	CreateReservation(ctx context.Context, req booking.ReservationRequest) (*model.ReservationDetail, error)
	UpdateReservation(ctx context.Context, actor booking.Actor, id uint64, upd booking.ReservationUpdate) (*model.ReservationDetail, error)
	CancelReservation(ctx context.Context, actor booking.Actor, id uint64) (*model.ReservationDetail, error)
	ListCustomerReservations(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error)
	ListRestaurantReservations(ctx context.Context, actor booking.Actor, restaurantID uint64, date string) ([]model.Reservation, error)
}

// ReservationHandler serves the /v1/reservations endpoints.  Every route
// except the availability check runs behind JWTAuth.
type ReservationHandler struct {
	svc ReservationService // booking engine
	log *zap.Logger        // unexpected failures only
}

// NewReservationHandler wires the handler to the booking engine.
func NewReservationHandler(svc ReservationService, log *zap.Logger) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReservationHandler{svc: svc, log: log}
}

// CheckAvailability handles GET /v1/reservations/availability.  All of
// restaurant_id, date, time and party_size are required query parameters.
// It always answers 200 for a known restaurant: an unavailable slot comes
// back with available=false and up to eight alternative times that are
// free and inside the day's opening hours.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	restaurantID := c.QueryParam("restaurant_id")
	date := c.QueryParam("date")
	tm := c.QueryParam("time")
	party := c.QueryParam("party_size")
	// every parameter is required
	if restaurantID == "" || date == "" || tm == "" || party == "" {
		return fail(c, http.StatusBadRequest, "Please provide restaurant_id, date, time, and party_size")
	}
	rid, err := strconv.ParseUint(restaurantID, 10, 64)
	if err != nil || rid == 0 {
		return fail(c, http.StatusBadRequest, "Invalid restaurant_id")
	}
	size, err := strconv.Atoi(party)
	if err != nil || size < 1 {
		return fail(c, http.StatusBadRequest, "Invalid party_size")
	}

	res, err := h.svc.CheckAvailability(c.Request().Context(), booking.AvailabilityQuery{
		RestaurantID: rid, Date: date, Time: tm, PartySize: size,
	})
	if err != nil {
		return h.fromError(c, err)
	}
	body := echo.Map{
		"success":               true,
		"available":             res.Available,
		"available_table_count": res.AvailableTableCount,
		"alternative_slots":     res.AlternativeSlots,
	}
	// set when no table seats the party at all
	if res.Message != "" {
		body["message"] = res.Message
	}
	return c.JSON(http.StatusOK, body)
}

// createReservationRequest is the POST body.  The customer comes from the
// token, never from the body.
type createReservationRequest struct {
	RestaurantID   uint64  `json:"restaurant_id"`
	Date           string  `json:"reservation_date"`
	Time           string  `json:"reservation_time"`
	PartySize      int     `json:"party_size"`
	SpecialRequest *string `json:"special_request"`
}

// CreateReservation handles POST /v1/reservations for the authenticated
// customer.  The engine assigns the smallest table that fits the party and
// stores the reservation as confirmed.  It returns 201 with the stored
// reservation, 409 when that table is taken at the requested slot and 400
// when no table is large enough.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	// bind request body
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if body.RestaurantID == 0 || body.Date == "" || body.Time == "" || body.PartySize == 0 {
		return fail(c, http.StatusBadRequest, "Please provide restaurant_id, reservation_date, reservation_time, and party_size")
	}

	res, err := h.svc.CreateReservation(c.Request().Context(), booking.ReservationRequest{
		RestaurantID:   body.RestaurantID,
		CustomerID:     userID,
		Date:           body.Date,
		Time:           body.Time,
		PartySize:      body.PartySize,
		SpecialRequest: body.SpecialRequest,
	})
	if err != nil {
		return h.fromError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "Reservation created successfully",
		"reservation": res,
	})
}

// ListMine handles GET /v1/reservations/user.  It lists every
// reservation of the caller, including cancelled and completed ones, with
// the restaurant name and address attached.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	list, err := h.svc.ListCustomerReservations(c.Request().Context(), userID)
	if err != nil {
		return h.fromError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "reservations": list})
}

// ListForRestaurant handles GET /v1/reservations/restaurant/:id?date=.
// Without a date it lists today's reservations.  Managers only see
// restaurants they manage; admins see any.
func (h *ReservationHandler) ListForRestaurant(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	rid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rid == 0 {
		return fail(c, http.StatusBadRequest, "Invalid restaurant id")
	}
	list, err := h.svc.ListRestaurantReservations(c.Request().Context(), actor, rid, c.QueryParam("date"))
	if err != nil {
		return h.fromError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(list), "reservations": list})
}

// updateReservationRequest is the PUT body.  Absent fields stay unchanged.
type updateReservationRequest struct {
	Status         *string `json:"status"`
	SpecialRequest *string `json:"special_request"`
}

// Update handles PUT /v1/reservations/:id.  The customer, a manager of
// the restaurant or an admin may change the status and/or the special
// request.  Completed and cancelled reservations cannot change status.
func (h *ReservationHandler) Update(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "Invalid reservation id")
	}
	var body updateReservationRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	// an empty status means "leave unchanged"
	if body.Status != nil && *body.Status == "" {
		body.Status = nil
	}
	if body.Status == nil && body.SpecialRequest == nil {
		return fail(c, http.StatusBadRequest, "No fields to update")
	}

	res, err := h.svc.UpdateReservation(c.Request().Context(), actor, id, booking.ReservationUpdate{
		Status: body.Status, SpecialRequest: body.SpecialRequest,
	})
	if err != nil {
		return h.fromError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Reservation updated successfully",
		"reservation": res,
	})
}

// Cancel handles DELETE /v1/reservations/:id.  The reservation is kept
// with status cancelled and the customer is notified.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "Invalid reservation id")
	}
	res, err := h.svc.CancelReservation(c.Request().Context(), actor, id)
	if err != nil {
		return h.fromError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Reservation cancelled successfully",
		"reservation": res,
	})
}

// actorFrom reads the caller set by JWTAuth.
func actorFrom(c echo.Context) (booking.Actor, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		return booking.Actor{}, false
	}
	return booking.Actor{UserID: id, Role: middleware.Role(c)}, true
}

// fromError maps engine errors to responses.  Anything unrecognized is
// logged and reported as a generic server error.
func (h *ReservationHandler) fromError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNoSuitableTable):
		return fail(c, http.StatusBadRequest, "No suitable table available for this party size")
	case errors.Is(err, booking.ErrRestaurantNotFound):
		return fail(c, http.StatusNotFound, "Restaurant not found or not approved")
	case errors.Is(err, booking.ErrReservationNotFound):
		return fail(c, http.StatusNotFound, "Reservation not found")
	case errors.Is(err, booking.ErrForbidden):
		return fail(c, http.StatusForbidden, "Not authorized to access this reservation")
	case errors.Is(err, booking.ErrSlotUnavailable):
		return fail(c, http.StatusConflict, "The requested time slot is not available")
	case errors.Is(err, booking.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "Reservation can no longer change status")
	}
	h.log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Server error")
}

// fail writes the standard error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
