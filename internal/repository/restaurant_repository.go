package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/model"
)

// RestaurantRepo reads restaurants and their weekly operating hours.  The
// booking engine never writes to these tables; restaurant management is
// owned by a separate service.
type RestaurantRepo struct {
	db *sqlx.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sqlx.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// GetApprovedRestaurant loads a restaurant by ID.  Restaurants that exist
// but are not approved are reported exactly like missing ones, with
// ErrRestaurantNotFound.
func (r *RestaurantRepo) GetApprovedRestaurant(ctx context.Context, id uint64) (*model.Restaurant, error) {
	const q = `SELECT id, manager_id, name, address_line1, address_line2, city, state, zip_code, is_approved
               FROM restaurants
               WHERE id = ? AND is_approved = 1`
	var rest model.Restaurant
	if err := r.db.GetContext(ctx, &rest, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// GetOperatingHours returns the opening window for a weekday name such as
// "Monday".  A nil result with a nil error means the restaurant has no
// hours configured for that day.  Opening and closing times are formatted
// as zero-padded "HH:MM" so they compare correctly as strings.
func (r *RestaurantRepo) GetOperatingHours(ctx context.Context, restaurantID uint64, weekday string) (*model.OperatingHours, error) {
	const q = `SELECT restaurant_id, day_of_week,
                      TIME_FORMAT(opening_time, '%H:%i') AS opening_time,
                      TIME_FORMAT(closing_time, '%H:%i') AS closing_time
               FROM operating_hours
               WHERE restaurant_id = ? AND day_of_week = ?
               LIMIT 1`
	var h model.OperatingHours
	if err := r.db.GetContext(ctx, &h, q, restaurantID, weekday); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// IsManagedBy reports whether userID is the manager of the restaurant.
// Approval state is ignored so managers keep access to their bookings
// while a restaurant is under review.
func (r *RestaurantRepo) IsManagedBy(ctx context.Context, restaurantID, userID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM restaurants WHERE id = ? AND manager_id = ?`
	var n int
	if err := r.db.GetContext(ctx, &n, q, restaurantID, userID); err != nil {
		return false, err
	}
	return n > 0, nil
}
