package domain

import "fmt"

// NotFoundError reports a lookup of an absent ship or material.
type NotFoundError struct {
	Entity EntityType
	ID     int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// DuplicateMaterialError reports a candidate cost set that lists the same
// material more than once.
type DuplicateMaterialError struct {
	MaterialID int64
}

func (e DuplicateMaterialError) Error() string {
	return fmt.Sprintf("material %d listed more than once", e.MaterialID)
}

// UnknownMaterialError reports a candidate line item referencing a material
// that does not exist.
type UnknownMaterialError struct {
	MaterialID int64
}

func (e UnknownMaterialError) Error() string {
	return fmt.Sprintf("material %d does not exist", e.MaterialID)
}

// ConstraintViolationError reports a broken invariant detected in stored data,
// such as a line item pointing at a missing record.
type ConstraintViolationError struct {
	Entity EntityType
	ID     int64
	Detail string
}

func (e ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation on %s %d: %s", e.Entity, e.ID, e.Detail)
}

// MaterialInUseError is returned when deleting a material still referenced
// by a ship's ledger.
type MaterialInUseError struct {
	MaterialID int64
	ShipID     int64
}

func (e MaterialInUseError) Error() string {
	return fmt.Sprintf("material %d still referenced by ship %d", e.MaterialID, e.ShipID)
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return fmt.Sprintf("transaction blocked by rules: %s: %s", v.Rule, v.Message)
		}
	}
	return "transaction blocked by rules"
}
