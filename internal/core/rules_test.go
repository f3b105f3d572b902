package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shipyard/pkg/domain"
)

func TestDefaultRulesEngineRegistersBuiltins(t *testing.T) {
	got := strings.Join(NewDefaultRulesEngine().Rules(), ",")
	if got != "material_cost_integrity,entity_fields,non_positive_amount" {
		t.Fatalf("unexpected rules %s", got)
	}
}

func TestMaterialCostIntegrityRule(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(v *stubView)
		change     domain.Change
		violations int
	}{
		{"valid line item", nil, domain.Change{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 2, MaterialID: 2, Amount: 1}}, 0},
		{"line item for missing ship", nil, domain.Change{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 9, MaterialID: 1, Amount: 1}}, 1},
		{"line item for missing material", nil, domain.Change{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 1, MaterialID: 8, Amount: 1}}, 1},
		{"ship deleted with ledger left behind",
			func(v *stubView) { delete(v.ships, 1) },
			domain.Change{Entity: EntityShip, Action: domain.ActionDelete, Before: Ship{Base: domain.Base{ID: 1}}}, 2},
		{"material deleted while referenced",
			func(v *stubView) { delete(v.materials, 1) },
			domain.Change{Entity: EntityMaterial, Action: domain.ActionDelete, Before: Material{Base: domain.Base{ID: 1}}}, 2},
		{"updates ignored", nil, domain.Change{Entity: EntityShip, Action: domain.ActionUpdate, After: Ship{Base: domain.Base{ID: 9}}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := newStubView()
			if tc.mutate != nil {
				tc.mutate(view)
			}
			res, err := MaterialCostIntegrityRule().Evaluate(context.Background(), view, []domain.Change{tc.change})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if len(res.Violations) != tc.violations {
				t.Fatalf("expected %d violations, got %+v", tc.violations, res.Violations)
			}
			if tc.violations > 0 && !res.HasBlocking() {
				t.Fatalf("integrity violations must block")
			}
		})
	}
}

func TestMaterialCostIntegrityRuleIgnoresUntouchedLedgers(t *testing.T) {
	view := newStubView()
	view.costs = append(view.costs, MaterialCost{ShipID: 9, MaterialID: 9, Amount: 1})
	change := domain.Change{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 2, MaterialID: 2, Amount: 1}}
	res, err := MaterialCostIntegrityRule().Evaluate(context.Background(), view, []domain.Change{change})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("rows outside the transaction must not be rescanned: %v %+v", err, res.Violations)
	}
	if view.loads != 0 {
		t.Fatalf("expected no ledger loads for a line item create, got %d", view.loads)
	}
}

func TestEntityFieldsRule(t *testing.T) {
	long := strings.Repeat("é", domain.MaxNameLength+1)
	exact := strings.Repeat("é", domain.MaxNameLength)
	cases := []struct {
		name       string
		change     domain.Change
		violations int
	}{
		{"valid material", domain.Change{Entity: EntityMaterial, Action: domain.ActionCreate, After: Material{Name: "Valkite"}}, 0},
		{"name at limit in runes", domain.Change{Entity: EntityMaterial, Action: domain.ActionCreate, After: Material{Name: exact}}, 0},
		{"blank material name", domain.Change{Entity: EntityMaterial, Action: domain.ActionCreate, After: Material{Name: "  "}}, 1},
		{"long material name", domain.Change{Entity: EntityMaterial, Action: domain.ActionUpdate, After: Material{Name: long}}, 1},
		{"ship missing both", domain.Change{Entity: EntityShip, Action: domain.ActionCreate, After: Ship{}}, 2},
		{"ship long designer", domain.Change{Entity: EntityShip, Action: domain.ActionUpdate, After: Ship{Name: "Hull", Designer: long}}, 1},
		{"deletes ignored", domain.Change{Entity: EntityShip, Action: domain.ActionDelete, Before: Ship{}}, 0},
		{"line items ignored", domain.Change{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := EntityFieldsRule().Evaluate(context.Background(), newStubView(), []domain.Change{tc.change})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if len(res.Violations) != tc.violations {
				t.Fatalf("expected %d violations, got %+v", tc.violations, res.Violations)
			}
			for _, v := range res.Violations {
				if v.Severity != domain.SeverityBlock || v.Rule != "entity_fields" {
					t.Fatalf("unexpected violation %+v", v)
				}
			}
		})
	}
}

func TestNonPositiveAmountRuleWarns(t *testing.T) {
	changes := []domain.Change{
		{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 1, MaterialID: 1, Amount: 0}},
		{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 1, MaterialID: 2, Amount: -3}},
		{Entity: EntityMaterialCost, Action: domain.ActionCreate, After: MaterialCost{ShipID: 1, MaterialID: 3, Amount: 4}},
		{Entity: EntityMaterialCost, Action: domain.ActionDelete, Before: MaterialCost{ShipID: 1, MaterialID: 4, Amount: -1}},
	}
	res, err := NonPositiveAmountRule().Evaluate(context.Background(), newStubView(), changes)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 || res.HasBlocking() {
		t.Fatalf("expected two warnings, got %+v", res.Violations)
	}
}

func TestServiceRejectsInvalidNamesThroughRules(t *testing.T) {
	svc := NewInMemoryService(NewDefaultRulesEngine())
	_, res, err := svc.CreateMaterial(context.Background(), NewMaterial{Name: "", Price: 1})
	var blocked domain.RuleViolationError
	if !errors.As(err, &blocked) || !res.HasBlocking() {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if list, _ := svc.ListMaterials(context.Background()); len(list) != 0 {
		t.Fatalf("blocked create must not commit")
	}
}
