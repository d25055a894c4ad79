package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/model"
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// reservationColumns selects a reservation row with the date and time
// rendered as "YYYY-MM-DD" and "HH:MM".  The table alias must be r.
const reservationColumns = `r.id, r.customer_id, r.restaurant_id, r.table_id,
       DATE_FORMAT(r.reservation_date, '%Y-%m-%d') AS reservation_date,
       TIME_FORMAT(r.reservation_time, '%H:%i') AS reservation_time,
       r.party_size, r.status, r.special_request, r.created_at, r.updated_at`

// detailQuery joins a reservation with the display fields of its restaurant.
const detailQuery = `SELECT ` + reservationColumns + `,
       rest.name AS restaurant_name, rest.address_line1, rest.address_line2,
       rest.city, rest.state, rest.zip_code, rest.manager_id
FROM reservations r
JOIN restaurants rest ON rest.id = r.restaurant_id`

// ReservationRepo provides the reservation queries used by the booking
// engine: conflict lookups, the booking insert and the lifecycle updates
// performed by customers and managers.
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// GetActiveReservations returns the pending or confirmed reservations held
// by any of the given tables at exactly the given date and time.  An empty
// table list yields an empty result without touching the database.
func (r *ReservationRepo) GetActiveReservations(ctx context.Context, tableIDs []uint64, date, tm string) ([]model.Reservation, error) {
	out := []model.Reservation{}
	if len(tableIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT `+reservationColumns+`
FROM reservations r
WHERE r.table_id IN (?) AND r.reservation_date = ? AND r.reservation_time = ? AND r.status IN (?)`,
		tableIDs, date, tm, model.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertReservation stores a new reservation and reads it back joined with
// its restaurant, all inside one transaction, so either the complete row
// is visible or nothing is.  A collision with the unique active slot index
// is reported as ErrSlotTaken.
func (r *ReservationRepo) InsertReservation(ctx context.Context, res *model.Reservation) (*model.ReservationDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO reservations (
                   customer_id, restaurant_id, table_id, reservation_date,
                   reservation_time, party_size, special_request, status
               ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.CustomerID, res.RestaurantID, res.TableID, res.Date,
		res.Time, res.PartySize, res.SpecialRequest, res.Status,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	detail, err := getDetail(ctx, tx, uint64(id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return detail, nil
}

// GetReservationDetail returns a reservation joined with its restaurant or
// ErrReservationNotFound.
func (r *ReservationRepo) GetReservationDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	return getDetail(ctx, r.db, id)
}

// UpdateReservation changes the status and/or special request of a
// reservation.  Nil arguments leave the column untouched; at least one
// must be set.  The updated row is returned.
func (r *ReservationRepo) UpdateReservation(ctx context.Context, id uint64, status, specialRequest *string) (*model.Reservation, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *status)
	}
	if specialRequest != nil {
		sets = append(sets, "special_request = ?")
		args = append(args, *specialRequest)
	}
	if len(sets) == 0 {
		return nil, errors.New("update reservation: no fields to update")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `UPDATE reservations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	var res model.Reservation
	if err := tx.GetContext(ctx, &res, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &res, nil
}

// ListByCustomer returns every reservation of a customer, newest slot first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	out := []model.ReservationDetail{}
	q := detailQuery + `
WHERE r.customer_id = ?
ORDER BY r.reservation_date DESC, r.reservation_time DESC`
	if err := r.db.SelectContext(ctx, &out, q, customerID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRestaurantDate returns the reservations of one restaurant on one
// date in time order, whatever their status.
func (r *ReservationRepo) ListByRestaurantDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error) {
	out := []model.Reservation{}
	q := `SELECT ` + reservationColumns + `
FROM reservations r
WHERE r.restaurant_id = ? AND r.reservation_date = ?
ORDER BY r.reservation_time ASC, r.id ASC`
	if err := r.db.SelectContext(ctx, &out, q, restaurantID, date); err != nil {
		return nil, err
	}
	return out, nil
}

func getDetail(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.ReservationDetail, error) {
	var det model.ReservationDetail
	if err := sqlx.GetContext(ctx, q, &det, detailQuery+`
WHERE r.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &det, nil
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
