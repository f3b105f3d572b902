package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"shipyard/internal/infra/persistence/memory"
	"shipyard/pkg/domain"
)

const (
	selectMaterials = `SELECT id, name, price, created_at, updated_at FROM materials ORDER BY id`
	selectShips     = `SELECT id, name, designer, description, created_at, updated_at FROM ships ORDER BY id`
	selectCosts     = `SELECT ship_id, material_id, amount FROM material_costs ORDER BY ship_id, material_id`
)

// Load reads the fleet tables into a memory snapshot.
func Load(ctx context.Context, db *sql.DB) (memory.Snapshot, error) {
	snapshot := memory.Snapshot{
		Materials: make(map[int64]domain.Material),
		Ships:     make(map[int64]domain.Ship),
	}

	rows, err := db.QueryContext(ctx, selectMaterials)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select materials: %w", err)
	}
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt); err != nil {
			_ = rows.Close()
			return memory.Snapshot{}, fmt.Errorf("scan material: %w", err)
		}
		snapshot.Materials[m.ID] = m
	}
	if err := closeRows(rows, "materials"); err != nil {
		return memory.Snapshot{}, err
	}

	rows, err = db.QueryContext(ctx, selectShips)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select ships: %w", err)
	}
	for rows.Next() {
		var s domain.Ship
		var desc sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Designer, &desc, &s.CreatedAt, &s.UpdatedAt); err != nil {
			_ = rows.Close()
			return memory.Snapshot{}, fmt.Errorf("scan ship: %w", err)
		}
		if desc.Valid {
			s.Description = &desc.String
		}
		snapshot.Ships[s.ID] = s
	}
	if err := closeRows(rows, "ships"); err != nil {
		return memory.Snapshot{}, err
	}

	rows, err = db.QueryContext(ctx, selectCosts)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select material costs: %w", err)
	}
	for rows.Next() {
		var c domain.MaterialCost
		if err := rows.Scan(&c.ShipID, &c.MaterialID, &c.Amount); err != nil {
			_ = rows.Close()
			return memory.Snapshot{}, fmt.Errorf("scan material cost: %w", err)
		}
		snapshot.Costs = append(snapshot.Costs, c)
	}
	if err := closeRows(rows, "material costs"); err != nil {
		return memory.Snapshot{}, err
	}
	return snapshot, nil
}

func closeRows(rows *sql.Rows, label string) error {
	iterErr := rows.Err()
	closeErr := rows.Close()
	if iterErr != nil {
		return fmt.Errorf("iterate %s: %w", label, iterErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s rows: %w", label, closeErr)
	}
	return nil
}
