package core

import (
	"context"
	"testing"

	"shipyard/internal/blob"
)

func strPtr(s string) *string { return &s }

// newScenarioService returns a service holding Valkite@10, Ajatite@20 and
// Bastium@200 (ids 1..3) and ship 1 built from 10/20/30 of them.
func newScenarioService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	svc := NewInMemoryService(NewDefaultRulesEngine(), opts...)
	seeded, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatalf("expected empty store to be seeded")
	}
	return svc
}

func costsOf(t *testing.T, svc *Service, shipID int64) []ShipCostView {
	t.Helper()
	detail, err := svc.GetShip(context.Background(), shipID)
	if err != nil {
		t.Fatalf("get ship %d: %v", shipID, err)
	}
	return detail.Costs
}

func sameCosts(got []ShipCostView, want []CostLine) bool {
	if len(got) != len(want) {
		return false
	}
	index := make(map[int64]int64, len(want))
	for _, line := range want {
		index[line.MaterialID] = line.Amount
	}
	for _, c := range got {
		amount, ok := index[c.MaterialID]
		if !ok || amount != c.Amount {
			return false
		}
	}
	return true
}

func newMemoryBlobs(t *testing.T) blob.Store {
	t.Helper()
	store, err := blob.Open(context.Background(), blob.Config{Driver: blob.DriverMemory})
	if err != nil {
		t.Fatalf("open memory blobs: %v", err)
	}
	return store
}
