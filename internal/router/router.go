// Package router registers the HTTP routes of the reservation API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// Deps are the collaborators routes are bound to.  RateLimit may be nil,
// in which case no limiting is applied.
type Deps struct {
	Reservations *handler.ReservationHandler // reservation endpoints
	DB           handler.Pinger              // pinged by /healthz
	JWTSecret    string                      // HMAC secret for access tokens
	RateLimit    echo.MiddlewareFunc         // token bucket, optional
}

// Register mounts every route on e.  The rate limiter runs after JWTAuth
// on authenticated routes so that user-based bucket keys see the caller's
// identity; the public availability route is keyed by IP and route only.
func Register(e *echo.Echo, d Deps) {
	// liveness plus database reachability
	e.GET("/healthz", handler.Health(d.DB))

	limit := d.RateLimit
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	h := d.Reservations

	g := e.Group("/v1/reservations")

	// Public availability lookup.  Guests may query without a token.  It
	// must be declared before the /:id routes.
	g.GET("/availability", h.CheckAvailability, limit)

	// Everything below requires a valid access token.
	auth := g.Group("", middleware.JWTAuth(d.JWTSecret), limit)
	// book a table for the calling customer
	auth.POST("", h.CreateReservation)
	// the caller's own reservations, newest first
	auth.GET("/user", h.ListMine)
	// a restaurant's reservations for one day; managers and admins only,
	// ownership is checked by the engine
	auth.GET("/restaurant/:id", h.ListForRestaurant,
		middleware.RequireRole(booking.RoleRestaurantManager, booking.RoleAdmin))
	// status and special request changes
	auth.PUT("/:id", h.Update)
	// cancellation; the row is kept with status cancelled
	auth.DELETE("/:id", h.Cancel)
}
