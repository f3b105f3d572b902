// Package postgres provides a Postgres-backed persistent store that mirrors the
// in-memory semantics into the fleet tables migrated on startup.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"shipyard/internal/infra/persistence/sqlstore"
	"shipyard/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/shipyard?sslmode=disable"

	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

var (
	sqlOpen = sql.Open
	migrate = sqlstore.Migrate
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation for transactions.
type Store struct {
	*sqlstore.Store
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to defaultDSN).
// It applies the goose migrations and hydrates the in-memory store from the fleet tables.
func NewStore(dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	mig := migrate
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	inner, err := sqlstore.Open(ctx, db, engine, sqlstore.Options{
		Dialect:  sqlstore.DialectPostgres,
		Classify: IsConstraintError,
		Migrate:  mig,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: inner}, nil
}

// IsConstraintError reports whether err carries a foreign key or unique violation SQLSTATE.
func IsConstraintError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == foreignKeyViolation || pgErr.Code == uniqueViolation
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// OverrideMigrate swaps the schema migration step for tests and returns a restore function.
func OverrideMigrate(fn func(ctx context.Context, db *sql.DB, dialect sqlstore.Dialect) error) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := migrate
	migrate = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		migrate = prev
	}
}
