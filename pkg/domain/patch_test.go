package domain

import (
	"encoding/json"
	"testing"
)

func TestShipPatchDecodePresence(t *testing.T) {
	var patch ShipPatch
	if err := json.Unmarshal([]byte(`{"description":"","costs":[{"material_id":1,"amount":5}]}`), &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patch.Name.IsSet() || patch.Designer.IsSet() {
		t.Fatalf("absent keys must stay unset: %+v", patch)
	}
	desc, ok := patch.Description.Get()
	if !ok || desc != "" {
		t.Fatalf("expected description set to empty string, got %q set=%v", desc, ok)
	}
	costs, ok := patch.Costs.Get()
	if !ok || len(costs) != 1 || costs[0] != (CostLine{MaterialID: 1, Amount: 5}) {
		t.Fatalf("unexpected costs %+v", costs)
	}
}

func TestShipPatchDecodeNullIsUnset(t *testing.T) {
	var patch ShipPatch
	if err := json.Unmarshal([]byte(`{"name":null}`), &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patch.Name.IsSet() {
		t.Fatalf("null should leave the field unset")
	}
	if !patch.IsEmpty() {
		t.Fatalf("expected empty patch")
	}
}

func TestShipPatchDecodeTypeMismatch(t *testing.T) {
	var patch ShipPatch
	if err := json.Unmarshal([]byte(`{"name":12}`), &patch); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestFieldMarshal(t *testing.T) {
	raw, err := json.Marshal(ShipPatch{Name: Set("Okim")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Okim","designer":null,"description":null,"costs":null}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}
