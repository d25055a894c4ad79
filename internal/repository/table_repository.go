package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableRepo provides read access to restaurant tables.
type TableRepo struct {
	db *sqlx.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sqlx.DB) *TableRepo { return &TableRepo{db: db} }

// GetTablesByCapacity returns the tables of a restaurant that seat at
// least minCapacity guests, smallest first.  Ties are broken by ID so the
// order is stable between calls.
func (r *TableRepo) GetTablesByCapacity(ctx context.Context, restaurantID uint64, minCapacity int) ([]model.Table, error) {
	const q = `SELECT id, restaurant_id, table_number, capacity
               FROM tables
               WHERE restaurant_id = ? AND capacity >= ?
               ORDER BY capacity ASC, id ASC`
	out := []model.Table{}
	if err := r.db.SelectContext(ctx, &out, q, restaurantID, minCapacity); err != nil {
		return nil, err
	}
	return out, nil
}
