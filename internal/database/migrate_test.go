package database

import (
	"context"
	"reflect"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestMigrations(t *testing.T) {
	base := []string{"0001_restaurants", "0002_tables", "0003_reservations"}
	if got := Migrations(MigrateOptions{}); !reflect.DeepEqual(got, base) {
		t.Fatalf("Migrations() = %v, want %v", got, base)
	}
	want := append(append([]string{}, base...), "0004_unique_active_slot")
	if got := Migrations(MigrateOptions{UniqueActiveSlot: true}); !reflect.DeepEqual(got, want) {
		t.Fatalf("Migrations(unique) = %v, want %v", got, want)
	}
}

func TestMigrateSkipsApplied(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	count := regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations WHERE version = ?")
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for _, v := range []string{"0001_restaurants", "0002_tables", "0003_reservations"} {
		mock.ExpectQuery(count).WithArgs(v).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	}
	mock.ExpectQuery(count).WithArgs("0004_unique_active_slot").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("ADD COLUMN active_slot")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ADD UNIQUE KEY")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES (?)")).
		WithArgs("0004_unique_active_slot").
		WillReturnResult(sqlmock.NewResult(1, 1))

	applied, err := Migrate(context.Background(), db, MigrateOptions{UniqueActiveSlot: true})
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !reflect.DeepEqual(applied, []string{"0004_unique_active_slot"}) {
		t.Fatalf("applied = %v", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDSN(t *testing.T) {
	o := Options{User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "reservations"}
	want := "app:secret@tcp(db:3306)/reservations?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := o.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
