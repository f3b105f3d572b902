package core

import (
	"context"
	"testing"
)

func TestSeedCreatesDemoFleetOnce(t *testing.T) {
	ctx := context.Background()
	svc := newScenarioService(t)

	materials, err := svc.ListMaterials(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []MaterialSummary{{1, "Valkite", 10}, {2, "Ajatite", 20}, {3, "Bastium", 200}}
	if len(materials) != len(want) {
		t.Fatalf("unexpected materials %+v", materials)
	}
	for i := range want {
		if materials[i] != want[i] {
			t.Fatalf("material %d: got %+v want %+v", i, materials[i], want[i])
		}
	}
	ship, err := svc.GetShip(ctx, 1)
	if err != nil {
		t.Fatalf("get ship: %v", err)
	}
	if ship.Name != "TestShip" || ship.Designer != "Okim" || ship.Description == nil || *ship.Description != "A fake ship that doesn't exist" {
		t.Fatalf("unexpected seeded ship %+v", ship.ShipSummary)
	}

	seeded, err := svc.Seed(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed must be a no-op: %v %v", seeded, err)
	}
	if ships, _ := svc.ListShips(ctx); len(ships) != 1 {
		t.Fatalf("second seed duplicated ships: %+v", ships)
	}
}

func TestSeedSkipsStoreWithMaterials(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	if _, _, err := svc.CreateMaterial(ctx, NewMaterial{Name: "Iron", Price: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	seeded, err := svc.Seed(ctx)
	if err != nil || seeded {
		t.Fatalf("expected seed skipped: %v %v", seeded, err)
	}
}
