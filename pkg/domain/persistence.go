package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Nothing written through a Transaction
// is visible to other readers until the enclosing RunInTransaction returns
// successfully.
type Transaction interface {
	Snapshot() TransactionView
	FindMaterial(id int64) (Material, bool)
	FindShip(id int64) (Ship, bool)
	CreateMaterial(Material) (Material, error)
	UpdateMaterial(id int64, mutator func(*Material) error) (Material, error)
	DeleteMaterial(id int64) error
	CreateShip(Ship) (Ship, error)
	UpdateShip(id int64, mutator func(*Ship) error) (Ship, error)
	// DeleteShip removes the ship and cascades to its line items.
	DeleteShip(id int64) error
	// CreateMaterialCosts inserts a batch of line items. The whole batch fails
	// if any item references a missing ship or material or collides with an
	// existing (ship, material) pair.
	CreateMaterialCosts(costs []MaterialCost) ([]MaterialCost, error)
	// DeleteShipCosts removes every line item owned by the ship and reports
	// how many were removed.
	DeleteShipCosts(shipID int64) (int, error)
}

// TransactionView provides read-only access to snapshot data for rules and
// projections. List results are ordered deterministically by key.
type TransactionView interface {
	ListMaterials() []Material
	ListShips() []Ship
	ListMaterialCosts() []MaterialCost
	FindMaterial(id int64) (Material, bool)
	FindShip(id int64) (Ship, bool)
	// ListShipCosts returns the ship's ledger ordered by material id.
	ListShipCosts(shipID int64) []MaterialCost
	// ListMaterialUsage returns the line items referencing the material
	// ordered by ship id.
	ListMaterialUsage(materialID int64) []MaterialCost
	// MaterialIDs returns the set of known material ids at snapshot time.
	MaterialIDs() map[int64]struct{}
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetMaterial(id int64) (Material, bool)
	ListMaterials() []Material
	GetShip(id int64) (Ship, bool)
	ListShips() []Ship
}
