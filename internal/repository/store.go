package repository

import "github.com/jmoiron/sqlx"

// Store bundles the repositories the booking engine reads from and writes
// to.  It satisfies booking.Store.
type Store struct {
	*RestaurantRepo
	*TableRepo
	*ReservationRepo
}

// NewStore wires all repositories to one database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		RestaurantRepo:  NewRestaurantRepo(db),
		TableRepo:       NewTableRepo(db),
		ReservationRepo: NewReservationRepo(db),
	}
}
