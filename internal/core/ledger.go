package core

import "shipyard/pkg/domain"

// replaceLedger overwrites the ship's line items with lines inside tx.
// Lines not listed are destroyed. The material-id set is read once from the
// transaction snapshot; nothing is written when validation fails.
func replaceLedger(tx Transaction, shipID int64, lines []CostLine) ([]MaterialCost, error) {
	if _, ok := tx.FindShip(shipID); !ok {
		return nil, domain.NotFoundError{Entity: EntityShip, ID: shipID}
	}
	if err := ValidateCostSet(lines, tx.Snapshot().MaterialIDs()); err != nil {
		return nil, err
	}
	return installLedger(tx, shipID, lines)
}

// installLedger deletes the ship's current ledger and inserts lines. Callers
// have already validated lines.
func installLedger(tx Transaction, shipID int64, lines []CostLine) ([]MaterialCost, error) {
	if _, err := tx.DeleteShipCosts(shipID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []MaterialCost{}, nil
	}
	costs := make([]MaterialCost, 0, len(lines))
	for _, line := range lines {
		costs = append(costs, MaterialCost{ShipID: shipID, MaterialID: line.MaterialID, Amount: line.Amount})
	}
	return tx.CreateMaterialCosts(costs)
}
