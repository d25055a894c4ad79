package model

// Table is a bookable dining table.  Capacity is the number of guests it
// seats and is always at least one.
type Table struct {
	ID           uint64 `db:"id" json:"id"`                       // tables.id
	RestaurantID uint64 `db:"restaurant_id" json:"restaurant_id"` // tables.restaurant_id
	TableNumber  int    `db:"table_number" json:"table_number"`   // tables.table_number
	Capacity     int    `db:"capacity" json:"capacity"`           // tables.capacity
}
