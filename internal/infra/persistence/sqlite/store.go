// Package sqlite provides a SQLite-backed persistent store that mirrors the
// in-memory semantics into the fleet tables.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	moderncsqlite "modernc.org/sqlite" // pure go sqlite driver
	sqlite3 "modernc.org/sqlite/lib"

	"shipyard/internal/infra/persistence/sqlstore"
	"shipyard/pkg/domain"
)

const defaultPath = "shipyard.db"

// Store persists state to SQLite while reusing the in-memory implementation for transactions.
type Store struct {
	*sqlstore.Store
	path string
}

// NewStore opens (creating when needed) the database at path, applies the
// schema migrations and loads any existing fleet data.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	inner, err := sqlstore.Open(context.Background(), db, engine, sqlstore.Options{
		Dialect:  sqlstore.DialectSQLite,
		Classify: IsConstraintError,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: inner, path: path}, nil
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// IsConstraintError reports whether err is a SQLite integrity constraint failure.
func IsConstraintError(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
