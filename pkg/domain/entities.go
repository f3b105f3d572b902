// Package domain defines the persistent entities, value types, errors and
// rule evaluation primitives used by shipyard.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityMaterial identifies a raw material record.
	EntityMaterial EntityType = "material"
	// EntityShip identifies a ship record.
	EntityShip EntityType = "ship"
	// EntityMaterialCost identifies a single bill-of-materials line item.
	EntityMaterialCost EntityType = "material_cost"
)

// MaxNameLength bounds the rune length of material names, ship names and designers.
const MaxNameLength = 50

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for the ID-addressed records.
type Base struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Material is a raw material with a unit price.
//
// Costs holds the line items referencing the material. It is never persisted
// with the material itself; a nil slice means the relation has not been
// loaded, an empty slice means it was loaded and is empty.
type Material struct {
	Base
	Name  string         `json:"name"`
	Price int64          `json:"price"`
	Costs []MaterialCost `json:"-"`
}

// Ship is the aggregate root for a bill of materials.
//
// Costs follows the same loaded/not-loaded convention as Material.Costs.
type Ship struct {
	Base
	Name        string         `json:"name"`
	Designer    string         `json:"designer"`
	Description *string        `json:"description"`
	Costs       []MaterialCost `json:"-"`
}

// MaterialCost records how much of a material a ship requires. The pair
// (ShipID, MaterialID) is its identity.
type MaterialCost struct {
	ShipID     int64 `json:"ship_id"`
	MaterialID int64 `json:"material_id"`
	Amount     int64 `json:"amount"`
}

// Key returns the composite identity of the line item.
func (c MaterialCost) Key() CostKey {
	return CostKey{ShipID: c.ShipID, MaterialID: c.MaterialID}
}

// CostKey is the composite primary key of a MaterialCost.
type CostKey struct {
	ShipID     int64
	MaterialID int64
}

// CostLine is a candidate line item supplied by a caller before it is bound
// to a ship.
type CostLine struct {
	MaterialID int64 `json:"material_id"`
	Amount     int64 `json:"amount"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured by transactions.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID int64
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
