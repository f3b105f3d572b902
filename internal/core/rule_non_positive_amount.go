package core

import (
	"context"
	"fmt"

	"shipyard/pkg/domain"
)

// NonPositiveAmountRule warns about newly written line items whose amount is
// zero or negative. Such amounts are accepted.
func NonPositiveAmountRule() domain.Rule {
	return nonPositiveAmountRule{}
}

type nonPositiveAmountRule struct{}

func (nonPositiveAmountRule) Name() string { return "non_positive_amount" }

func (r nonPositiveAmountRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityMaterialCost || change.Action != domain.ActionCreate {
			continue
		}
		cost, ok := change.After.(domain.MaterialCost)
		if !ok || cost.Amount > 0 {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("ship %d lists material %d with amount %d", cost.ShipID, cost.MaterialID, cost.Amount),
			Entity:   domain.EntityMaterialCost,
			EntityID: cost.ShipID,
		})
	}
	return res, nil
}
