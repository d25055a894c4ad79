package model

// Restaurant is a venue that accepts table reservations.  Only approved
// restaurants are visible to the booking engine; a restaurant that is
// still waiting for moderation behaves as if it did not exist.
//
// Fields:
//  ID           – primary key identifier.
//  ManagerID    – user ID of the restaurant manager.
//  Name         – display name.
//  AddressLine1 – first address line.
//  AddressLine2 – optional second address line.
//  City, State, ZipCode – remaining address fields.
//  IsApproved   – moderation gate set by an admin.
type Restaurant struct {
	ID           uint64  `db:"id" json:"id"`                       // restaurants.id
	ManagerID    uint64  `db:"manager_id" json:"manager_id"`       // restaurants.manager_id
	Name         string  `db:"name" json:"name"`                   // restaurants.name
	AddressLine1 string  `db:"address_line1" json:"address_line1"` // restaurants.address_line1
	AddressLine2 *string `db:"address_line2" json:"address_line2"` // restaurants.address_line2 (nullable)
	City         string  `db:"city" json:"city"`                   // restaurants.city
	State        string  `db:"state" json:"state"`                 // restaurants.state
	ZipCode      string  `db:"zip_code" json:"zip_code"`           // restaurants.zip_code
	IsApproved   bool    `db:"is_approved" json:"is_approved"`     // restaurants.is_approved
}

// OperatingHours holds the opening window of a restaurant for one weekday.
// A weekday without a row means the restaurant is closed that day.  Times
// are wall-clock "HH:MM" strings in restaurant-local time.
type OperatingHours struct {
	RestaurantID uint64 `db:"restaurant_id" json:"restaurant_id"` // operating_hours.restaurant_id
	DayOfWeek    string `db:"day_of_week" json:"day_of_week"`     // operating_hours.day_of_week ("Monday".."Sunday")
	OpeningTime  string `db:"opening_time" json:"opening_time"`   // operating_hours.opening_time
	ClosingTime  string `db:"closing_time" json:"closing_time"`   // operating_hours.closing_time
}
