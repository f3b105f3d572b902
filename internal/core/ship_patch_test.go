package core

import (
	"testing"

	"shipyard/pkg/domain"
)

func TestApplyShipPatch(t *testing.T) {
	base := Ship{Base: domain.Base{ID: 4}, Name: "TestShip", Designer: "Okim", Description: strPtr("A fake ship")}

	cases := []struct {
		name  string
		patch ShipPatch
		check func(t *testing.T, got Ship)
	}{
		{
			name:  "empty patch keeps scalars",
			patch: ShipPatch{},
			check: func(t *testing.T, got Ship) {
				if got.Name != "TestShip" || got.Designer != "Okim" || got.Description == nil || *got.Description != "A fake ship" {
					t.Fatalf("unexpected ship %+v", got)
				}
			},
		},
		{
			name:  "name and designer overwrite",
			patch: ShipPatch{Name: domain.Set("Hull"), Designer: domain.Set("Ada")},
			check: func(t *testing.T, got Ship) {
				if got.Name != "Hull" || got.Designer != "Ada" || got.Description == nil {
					t.Fatalf("unexpected ship %+v", got)
				}
			},
		},
		{
			name:  "empty description clears",
			patch: ShipPatch{Description: domain.Set("")},
			check: func(t *testing.T, got Ship) {
				if got.Description != nil {
					t.Fatalf("expected description cleared, got %q", *got.Description)
				}
			},
		},
		{
			name:  "description replaced",
			patch: ShipPatch{Description: domain.Set("refit")},
			check: func(t *testing.T, got Ship) {
				if got.Description == nil || *got.Description != "refit" {
					t.Fatalf("unexpected description %v", got.Description)
				}
			},
		},
		{
			name:  "costs ignored",
			patch: ShipPatch{Costs: domain.Set([]CostLine{{MaterialID: 1, Amount: 1}})},
			check: func(t *testing.T, got Ship) {
				if got.Costs != nil {
					t.Fatalf("patch must not touch the ledger")
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyShipPatch(base, tc.patch)
			if got.ID != base.ID {
				t.Fatalf("id changed to %d", got.ID)
			}
			tc.check(t, got)
		})
	}
	if *base.Description != "A fake ship" {
		t.Fatalf("input ship mutated")
	}
}
