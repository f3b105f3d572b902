// Package sqlstore holds the relational mirror shared by the sqlite and
// postgres stores. The in-memory store stays authoritative for reads and
// rule evaluation; every accepted transaction is replayed into the three
// fleet tables inside one SQL transaction before it is published.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"shipyard/internal/infra/persistence/memory"
	"shipyard/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Dialect selects placeholder style and migration set.
type Dialect string

// Supported SQL dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrorClassifier reports whether a driver error is an integrity constraint
// failure (foreign key or primary key).
type ErrorClassifier func(error) bool

// Options configures Open.
type Options struct {
	Dialect Dialect
	// Classify maps driver errors onto domain.ConstraintViolationError.
	Classify ErrorClassifier
	// Migrate overrides schema migration; nil applies the embedded goose migrations.
	Migrate func(ctx context.Context, db *sql.DB, dialect Dialect) error
}

// Store mirrors the in-memory store into relational tables.
type Store struct {
	*memory.Store
	db        *sql.DB
	persister *persister
}

// Open migrates the schema, hydrates an in-memory store from the tables and
// wires the commit hook that keeps them in sync.
func Open(ctx context.Context, db *sql.DB, engine *domain.RulesEngine, opts Options) (*Store, error) {
	migrate := opts.Migrate
	if migrate == nil {
		migrate = Migrate
	}
	if err := migrate(ctx, db, opts.Dialect); err != nil {
		return nil, err
	}
	snapshot, err := Load(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore(engine)
	if err := mem.ImportState(snapshot); err != nil {
		return nil, fmt.Errorf("hydrate store: %w", err)
	}
	p := &persister{db: db, dialect: opts.Dialect, classify: opts.Classify}
	mem.SetCommitHook(p.apply)
	return &Store{Store: mem, db: db, persister: p}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
