package core

import "shipyard/pkg/domain"

// ValidateCostSet checks a candidate ledger against the known material ids.
// Duplicates are reported before unknown materials; in both cases the first
// offending line in input order wins. It never touches the store.
func ValidateCostSet(lines []CostLine, known map[int64]struct{}) error {
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.MaterialID]; dup {
			return domain.DuplicateMaterialError{MaterialID: line.MaterialID}
		}
		seen[line.MaterialID] = struct{}{}
	}
	for _, line := range lines {
		if _, ok := known[line.MaterialID]; !ok {
			return domain.UnknownMaterialError{MaterialID: line.MaterialID}
		}
	}
	return nil
}
