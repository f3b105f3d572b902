package core

// ApplyShipPatch returns ship with every set scalar field of patch applied.
// A description set to "" clears it. Costs are ignored here; ledger changes
// go through replaceLedger.
func ApplyShipPatch(ship Ship, patch ShipPatch) Ship {
	if name, ok := patch.Name.Get(); ok {
		ship.Name = name
	}
	if designer, ok := patch.Designer.Get(); ok {
		ship.Designer = designer
	}
	if desc, ok := patch.Description.Get(); ok {
		if desc == "" {
			ship.Description = nil
		} else {
			d := desc
			ship.Description = &d
		}
	}
	return ship
}
