package core

import (
	"errors"
	"testing"

	"shipyard/pkg/domain"
)

func TestValidateCostSet(t *testing.T) {
	known := map[int64]struct{}{1: {}, 2: {}, 3: {}}
	cases := []struct {
		name      string
		lines     []CostLine
		duplicate int64
		unknown   int64
	}{
		{name: "empty set", lines: nil},
		{name: "valid", lines: []CostLine{{MaterialID: 1, Amount: 10}, {MaterialID: 3, Amount: 1}}},
		{name: "zero and negative amounts accepted", lines: []CostLine{{MaterialID: 1, Amount: 0}, {MaterialID: 2, Amount: -4}}},
		{name: "duplicate", lines: []CostLine{{MaterialID: 1, Amount: 5}, {MaterialID: 1, Amount: 7}}, duplicate: 1},
		{name: "first repeat wins", lines: []CostLine{{MaterialID: 2}, {MaterialID: 3}, {MaterialID: 3}, {MaterialID: 2}}, duplicate: 3},
		{name: "unknown", lines: []CostLine{{MaterialID: 99, Amount: 1}}, unknown: 99},
		{name: "first unknown wins", lines: []CostLine{{MaterialID: 1}, {MaterialID: 42}, {MaterialID: 7}}, unknown: 42},
		{name: "duplicate reported before unknown", lines: []CostLine{{MaterialID: 99}, {MaterialID: 2}, {MaterialID: 2}}, duplicate: 2},
		{name: "duplicated unknown is a duplicate", lines: []CostLine{{MaterialID: 99}, {MaterialID: 99}}, duplicate: 99},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCostSet(tc.lines, known)
			var dup domain.DuplicateMaterialError
			var unk domain.UnknownMaterialError
			switch {
			case tc.duplicate != 0:
				if !errors.As(err, &dup) || dup.MaterialID != tc.duplicate {
					t.Fatalf("expected duplicate %d, got %v", tc.duplicate, err)
				}
			case tc.unknown != 0:
				if !errors.As(err, &unk) || unk.MaterialID != tc.unknown {
					t.Fatalf("expected unknown %d, got %v", tc.unknown, err)
				}
			default:
				if err != nil {
					t.Fatalf("expected valid set, got %v", err)
				}
			}
		})
	}
}

func TestValidateCostSetNilKnownRejectsEverything(t *testing.T) {
	err := ValidateCostSet([]CostLine{{MaterialID: 1}}, nil)
	var unk domain.UnknownMaterialError
	if !errors.As(err, &unk) {
		t.Fatalf("expected unknown material, got %v", err)
	}
}
