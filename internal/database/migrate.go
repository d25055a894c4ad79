package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration is one named, idempotent schema step.
type migration struct {
	version string
	stmts   []string
}

// baseMigrations create the tables the booking engine reads and writes.
// Restaurants, hours and tables are owned by the restaurant service but
// are created here so a fresh database is usable on its own.
var baseMigrations = []migration{
	{
		version: "0001_restaurants",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS restaurants (
    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    manager_id    BIGINT UNSIGNED NOT NULL,
    name          VARCHAR(255) NOT NULL,
    address_line1 VARCHAR(255) NOT NULL DEFAULT '',
    address_line2 VARCHAR(255) NULL,
    city          VARCHAR(100) NOT NULL DEFAULT '',
    state         VARCHAR(100) NOT NULL DEFAULT '',
    zip_code      VARCHAR(20)  NOT NULL DEFAULT '',
    is_approved   TINYINT(1)   NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_restaurants_manager (manager_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS operating_hours (
    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    restaurant_id BIGINT UNSIGNED NOT NULL,
    day_of_week   ENUM('Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday') NOT NULL,
    opening_time  TIME NOT NULL,
    closing_time  TIME NOT NULL,
    UNIQUE KEY uq_hours_day (restaurant_id, day_of_week),
    CONSTRAINT fk_hours_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
	{
		version: "0002_tables",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS tables (
    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    restaurant_id BIGINT UNSIGNED NOT NULL,
    table_number  INT NOT NULL,
    capacity      INT NOT NULL,
    UNIQUE KEY uq_tables_number (restaurant_id, table_number),
    KEY idx_tables_capacity (restaurant_id, capacity),
    CONSTRAINT chk_tables_capacity CHECK (capacity >= 1),
    CONSTRAINT fk_tables_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
	{
		version: "0003_reservations",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS reservations (
    id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    customer_id      BIGINT UNSIGNED NOT NULL,
    restaurant_id    BIGINT UNSIGNED NOT NULL,
    table_id         BIGINT UNSIGNED NOT NULL,
    reservation_date DATE NOT NULL,
    reservation_time TIME NOT NULL,
    party_size       INT NOT NULL,
    status           ENUM('pending','confirmed','completed','cancelled') NOT NULL DEFAULT 'pending',
    special_request  TEXT NULL,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_reservations_slot (table_id, reservation_date, reservation_time, status),
    KEY idx_reservations_customer (customer_id),
    KEY idx_reservations_restaurant_date (restaurant_id, reservation_date),
    CONSTRAINT fk_reservations_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id),
    CONSTRAINT fk_reservations_table FOREIGN KEY (table_id) REFERENCES tables (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
}

// uniqueActiveSlot closes the check-then-insert race at the storage level.
// active_slot is 1 for pending and confirmed rows and NULL otherwise, and
// NULLs never collide in a unique index, so only two active reservations
// for the same table slot conflict.
var uniqueActiveSlot = migration{
	version: "0004_unique_active_slot",
	stmts: []string{
		`ALTER TABLE reservations
    ADD COLUMN active_slot TINYINT
        GENERATED ALWAYS AS (IF(status IN ('pending','confirmed'), 1, NULL)) STORED`,
		`ALTER TABLE reservations
    ADD UNIQUE KEY uq_reservations_active_slot (table_id, reservation_date, reservation_time, active_slot)`,
	},
}

// MigrateOptions selects optional schema steps.
type MigrateOptions struct {
	UniqueActiveSlot bool
}

// Migrations returns the ordered list of versions Migrate would apply.
func Migrations(opts MigrateOptions) []string {
	var out []string
	for _, m := range plan(opts) {
		out = append(out, m.version)
	}
	return out
}

func plan(opts MigrateOptions) []migration {
	steps := append([]migration{}, baseMigrations...)
	if opts.UniqueActiveSlot {
		steps = append(steps, uniqueActiveSlot)
	}
	return steps
}

// Migrate applies every pending migration in order and records it in
// schema_migrations.  It returns the versions applied by this call.
func Migrate(ctx context.Context, db *sqlx.DB, opts MigrateOptions) ([]string, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(64) PRIMARY KEY,
    applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	for _, m := range plan(opts) {
		var n int
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version); err != nil {
			return applied, fmt.Errorf("check %s: %w", m.version, err)
		}
		if n > 0 {
			continue
		}
		// MySQL commits DDL implicitly, so each statement runs on its own.
		for _, stmt := range m.stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return applied, fmt.Errorf("apply %s: %w", m.version, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			return applied, fmt.Errorf("record %s: %w", m.version, err)
		}
		applied = append(applied, m.version)
	}
	return applied, nil
}
