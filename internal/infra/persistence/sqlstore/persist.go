package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"shipyard/pkg/domain"
)

const (
	insertMaterial = `INSERT INTO materials (id, name, price, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	updateMaterial = `UPDATE materials SET name = ?, price = ?, updated_at = ? WHERE id = ?`
	deleteMaterial = `DELETE FROM materials WHERE id = ?`
	insertShip     = `INSERT INTO ships (id, name, designer, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	updateShip     = `UPDATE ships SET name = ?, designer = ?, description = ?, updated_at = ? WHERE id = ?`
	deleteShip     = `DELETE FROM ships WHERE id = ?`
	insertCost     = `INSERT INTO material_costs (ship_id, material_id, amount) VALUES (?, ?, ?)`
	deleteCost     = `DELETE FROM material_costs WHERE ship_id = ? AND material_id = ?`
)

type persister struct {
	db       *sql.DB
	dialect  Dialect
	classify ErrorClassifier
}

// apply replays change records in order inside a single SQL transaction.
func (p *persister) apply(ctx context.Context, changes []domain.Change) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, change := range changes {
		query, args, id, err := statementFor(change)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, Rebind(p.dialect, query), args...); err != nil {
			if p.classify != nil && p.classify(err) {
				return domain.ConstraintViolationError{Entity: change.Entity, ID: id, Detail: err.Error()}
			}
			return fmt.Errorf("%s %s %d: %w", change.Action, change.Entity, id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// statementFor maps a change record onto its SQL statement. The returned id
// identifies the affected row for error reporting; line items report their
// ship id.
func statementFor(change domain.Change) (string, []any, int64, error) {
	switch change.Entity {
	case domain.EntityMaterial:
		switch change.Action {
		case domain.ActionCreate:
			m, ok := change.After.(domain.Material)
			if !ok {
				break
			}
			return insertMaterial, []any{m.ID, m.Name, m.Price, m.CreatedAt, m.UpdatedAt}, m.ID, nil
		case domain.ActionUpdate:
			m, ok := change.After.(domain.Material)
			if !ok {
				break
			}
			return updateMaterial, []any{m.Name, m.Price, m.UpdatedAt, m.ID}, m.ID, nil
		case domain.ActionDelete:
			m, ok := change.Before.(domain.Material)
			if !ok {
				break
			}
			return deleteMaterial, []any{m.ID}, m.ID, nil
		}
	case domain.EntityShip:
		switch change.Action {
		case domain.ActionCreate:
			s, ok := change.After.(domain.Ship)
			if !ok {
				break
			}
			return insertShip, []any{s.ID, s.Name, s.Designer, nullable(s.Description), s.CreatedAt, s.UpdatedAt}, s.ID, nil
		case domain.ActionUpdate:
			s, ok := change.After.(domain.Ship)
			if !ok {
				break
			}
			return updateShip, []any{s.Name, s.Designer, nullable(s.Description), s.UpdatedAt, s.ID}, s.ID, nil
		case domain.ActionDelete:
			s, ok := change.Before.(domain.Ship)
			if !ok {
				break
			}
			return deleteShip, []any{s.ID}, s.ID, nil
		}
	case domain.EntityMaterialCost:
		switch change.Action {
		case domain.ActionCreate:
			c, ok := change.After.(domain.MaterialCost)
			if !ok {
				break
			}
			return insertCost, []any{c.ShipID, c.MaterialID, c.Amount}, c.ShipID, nil
		case domain.ActionDelete:
			c, ok := change.Before.(domain.MaterialCost)
			if !ok {
				break
			}
			return deleteCost, []any{c.ShipID, c.MaterialID}, c.ShipID, nil
		}
	}
	return "", nil, 0, fmt.Errorf("unsupported change %s/%s", change.Entity, change.Action)
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Rebind rewrites ? placeholders into $n for postgres.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
