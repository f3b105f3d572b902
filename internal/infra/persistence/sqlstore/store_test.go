package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"shipyard/pkg/domain"
)

func noMigrate(context.Context, *sql.DB, Dialect) error { return nil }

func expectEmptyLoad(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(selectMaterials)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(selectShips)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "designer", "description", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(selectCosts)).
		WillReturnRows(sqlmock.NewRows([]string{"ship_id", "material_id", "amount"}))
}

func TestOpenHydratesFromTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectMaterials)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "price", "created_at", "updated_at"}).
			AddRow(int64(1), "Valkite", int64(10), now, now).
			AddRow(int64(2), "Ajatite", int64(20), now, now))
	mock.ExpectQuery(regexp.QuoteMeta(selectShips)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "designer", "description", "created_at", "updated_at"}).
			AddRow(int64(4), "TestShip", "Okim", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(selectCosts)).WillReturnRows(
		sqlmock.NewRows([]string{"ship_id", "material_id", "amount"}).
			AddRow(int64(4), int64(2), int64(20)))

	store, err := Open(context.Background(), db, nil, Options{Dialect: DialectPostgres, Migrate: noMigrate})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := len(store.ListMaterials()); got != 2 {
		t.Fatalf("expected 2 materials, got %d", got)
	}
	ship, ok := store.GetShip(4)
	if !ok || ship.Description != nil {
		t.Fatalf("expected ship 4 without description, got %+v", ship)
	}
	if costs := store.ListMaterialCosts(); len(costs) != 1 || costs[0].Amount != 20 {
		t.Fatalf("unexpected costs %+v", costs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCommitReplaysChangesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	expectEmptyLoad(mock)

	store, err := Open(context.Background(), db, nil, Options{Dialect: DialectPostgres, Migrate: noMigrate})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(Rebind(DialectPostgres, insertMaterial))).
		WithArgs(int64(1), "Valkite", int64(10), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(Rebind(DialectPostgres, insertShip))).
		WithArgs(int64(1), "TestShip", "Okim", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(Rebind(DialectPostgres, insertCost))).
		WithArgs(int64(1), int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		m, err := tx.CreateMaterial(domain.Material{Name: "Valkite", Price: 10})
		if err != nil {
			return err
		}
		s, err := tx.CreateShip(domain.Ship{Name: "TestShip", Designer: "Okim"})
		if err != nil {
			return err
		}
		_, err = tx.CreateMaterialCosts([]domain.MaterialCost{{ShipID: s.ID, MaterialID: m.ID, Amount: 10}})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCommitFailureRollsBackAndKeepsMemoryState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	expectEmptyLoad(mock)

	constraint := errors.New("violates foreign key")
	store, err := Open(context.Background(), db, nil, Options{
		Dialect:  DialectSQLite,
		Migrate:  noMigrate,
		Classify: func(err error) bool { return errors.Is(err, constraint) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertMaterial)).WillReturnError(constraint)
	mock.ExpectRollback()

	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateMaterial(domain.Material{Name: "Valkite", Price: 10})
		return e
	})
	var cv domain.ConstraintViolationError
	if !errors.As(err, &cv) || cv.Entity != domain.EntityMaterial || cv.ID != 1 {
		t.Fatalf("expected constraint violation on material 1, got %v", err)
	}
	if len(store.ListMaterials()) != 0 {
		t.Fatalf("failed SQL commit must not publish memory state")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOpenPropagatesMigrationError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	boom := errors.New("boom")
	_, err = Open(context.Background(), db, nil, Options{
		Dialect: DialectPostgres,
		Migrate: func(context.Context, *sql.DB, Dialect) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected migration error, got %v", err)
	}
}

func TestMigrateRejectsUnknownDialect(t *testing.T) {
	if err := Migrate(context.Background(), nil, Dialect("oracle")); err == nil {
		t.Fatalf("expected unsupported dialect error")
	}
}

func TestStatementForUnsupportedChange(t *testing.T) {
	cases := []domain.Change{
		{Entity: domain.EntityMaterialCost, Action: domain.ActionUpdate},
		{Entity: domain.EntityShip, Action: domain.ActionCreate, After: "not a ship"},
		{Entity: "crew", Action: domain.ActionCreate},
	}
	for _, change := range cases {
		if _, _, _, err := statementFor(change); err == nil {
			t.Fatalf("expected error for %+v", change)
		}
	}
}

func TestRebind(t *testing.T) {
	query := `UPDATE ships SET name = ?, designer = ? WHERE id = ?`
	if got := Rebind(DialectSQLite, query); got != query {
		t.Fatalf("sqlite queries must be unchanged, got %s", got)
	}
	want := `UPDATE ships SET name = $1, designer = $2 WHERE id = $3`
	if got := Rebind(DialectPostgres, query); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
