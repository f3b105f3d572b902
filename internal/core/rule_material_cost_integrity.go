package core

import (
	"context"
	"fmt"

	"shipyard/pkg/domain"
)

// MaterialCostIntegrityRule blocks any commit that leaves a line item
// pointing at a missing ship or material. Only records touched by the
// transaction are checked: created line items and the ledgers that referenced
// a deleted ship or material.
func MaterialCostIntegrityRule() domain.Rule {
	return materialCostIntegrityRule{}
}

type materialCostIntegrityRule struct{}

func (materialCostIntegrityRule) Name() string { return "material_cost_integrity" }

func (r materialCostIntegrityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		switch {
		case change.Entity == domain.EntityMaterialCost && change.Action == domain.ActionCreate:
			if cost, ok := change.After.(domain.MaterialCost); ok {
				r.check(&res, view, cost)
			}
		case change.Entity == domain.EntityShip && change.Action == domain.ActionDelete:
			if ship, ok := change.Before.(domain.Ship); ok {
				for _, cost := range view.ListShipCosts(ship.ID) {
					r.check(&res, view, cost)
				}
			}
		case change.Entity == domain.EntityMaterial && change.Action == domain.ActionDelete:
			if material, ok := change.Before.(domain.Material); ok {
				for _, cost := range view.ListMaterialUsage(material.ID) {
					r.check(&res, view, cost)
				}
			}
		}
	}
	return res, nil
}

func (r materialCostIntegrityRule) check(res *domain.Result, view domain.RuleView, cost domain.MaterialCost) {
	if _, ok := view.FindShip(cost.ShipID); !ok {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("line item for material %d references missing ship %d", cost.MaterialID, cost.ShipID),
			Entity:   domain.EntityMaterialCost,
			EntityID: cost.ShipID,
		})
	}
	if _, ok := view.FindMaterial(cost.MaterialID); !ok {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("ship %d references missing material %d", cost.ShipID, cost.MaterialID),
			Entity:   domain.EntityMaterialCost,
			EntityID: cost.ShipID,
		})
	}
}
