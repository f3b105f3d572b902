package core

import (
	"strconv"

	"shipyard/pkg/domain"
)

// MaterialSummary is the reduced material projection used by list endpoints.
type MaterialSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ShipSummary is the reduced ship projection used by list endpoints.
type ShipSummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Designer    string  `json:"designer"`
	Description *string `json:"description"`
}

// ShipCostView is one line of a ship's ledger enriched with the material name.
type ShipCostView struct {
	Amount       int64  `json:"amount"`
	MaterialID   int64  `json:"material_id"`
	MaterialName string `json:"material_name"`
}

// MaterialCostView is one ledger line referencing a material, enriched with
// the ship name.
type MaterialCostView struct {
	Amount   int64  `json:"amount"`
	ShipID   int64  `json:"ship_id"`
	ShipName string `json:"ship_name"`
}

// ShipDetail is the detailed ship projection.
type ShipDetail struct {
	ShipSummary
	Costs []ShipCostView `json:"costs"`
}

// MaterialDetail is the detailed material projection.
type MaterialDetail struct {
	MaterialSummary
	Costs []MaterialCostView `json:"costs"`
}

// SummarizeMaterial maps a material onto its reduced view.
func SummarizeMaterial(m Material) MaterialSummary {
	return MaterialSummary{ID: m.ID, Name: m.Name, Price: m.Price}
}

// SummarizeShip maps a ship onto its reduced view.
func SummarizeShip(s Ship) ShipSummary {
	var desc *string
	if s.Description != nil {
		d := *s.Description
		desc = &d
	}
	return ShipSummary{ID: s.ID, Name: s.Name, Designer: s.Designer, Description: desc}
}

// EnsureShipCosts returns ship with its ledger populated from view. A ship
// whose Costs is already non-nil is returned unchanged.
func EnsureShipCosts(view TransactionView, ship Ship) Ship {
	if ship.Costs != nil {
		return ship
	}
	costs := view.ListShipCosts(ship.ID)
	if costs == nil {
		costs = []MaterialCost{}
	}
	ship.Costs = costs
	return ship
}

// EnsureMaterialCosts returns material with its usage populated from view.
func EnsureMaterialCosts(view TransactionView, material Material) Material {
	if material.Costs != nil {
		return material
	}
	costs := view.ListMaterialUsage(material.ID)
	if costs == nil {
		costs = []MaterialCost{}
	}
	material.Costs = costs
	return material
}

// DetailShip assembles the detailed ship view, loading the ledger if needed.
// A line item naming a missing material fails the whole projection.
func DetailShip(view TransactionView, ship Ship) (ShipDetail, error) {
	ship = EnsureShipCosts(view, ship)
	detail := ShipDetail{ShipSummary: SummarizeShip(ship), Costs: make([]ShipCostView, 0, len(ship.Costs))}
	for _, c := range ship.Costs {
		material, ok := view.FindMaterial(c.MaterialID)
		if !ok {
			return ShipDetail{}, domain.ConstraintViolationError{
				Entity: EntityShip,
				ID:     ship.ID,
				Detail: "line item references missing material " + strconv.FormatInt(c.MaterialID, 10),
			}
		}
		detail.Costs = append(detail.Costs, ShipCostView{Amount: c.Amount, MaterialID: material.ID, MaterialName: material.Name})
	}
	return detail, nil
}

// DetailMaterial assembles the detailed material view.
func DetailMaterial(view TransactionView, material Material) (MaterialDetail, error) {
	material = EnsureMaterialCosts(view, material)
	detail := MaterialDetail{MaterialSummary: SummarizeMaterial(material), Costs: make([]MaterialCostView, 0, len(material.Costs))}
	for _, c := range material.Costs {
		ship, ok := view.FindShip(c.ShipID)
		if !ok {
			return MaterialDetail{}, domain.ConstraintViolationError{
				Entity: EntityMaterial,
				ID:     material.ID,
				Detail: "line item references missing ship " + strconv.FormatInt(c.ShipID, 10),
			}
		}
		detail.Costs = append(detail.Costs, MaterialCostView{Amount: c.Amount, ShipID: ship.ID, ShipName: ship.Name})
	}
	return detail, nil
}
