// Package core implements the shipyard service: cost ledger validation and
// replacement, ship patching, projection assembly and the transactional
// service surface used by the HTTP adapter.
package core

import "shipyard/pkg/domain"

type (
	EntityType      = domain.EntityType
	Material        = domain.Material
	Ship            = domain.Ship
	MaterialCost    = domain.MaterialCost
	CostLine        = domain.CostLine
	ShipPatch       = domain.ShipPatch
	NewShip         = domain.NewShip
	NewMaterial     = domain.NewMaterial
	Change          = domain.Change
	Result          = domain.Result
	Violation       = domain.Violation
	Rule            = domain.Rule
	RulesEngine     = domain.RulesEngine
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

const (
	EntityMaterial     = domain.EntityMaterial
	EntityShip         = domain.EntityShip
	EntityMaterialCost = domain.EntityMaterialCost
)

// NewRulesEngine returns an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}
