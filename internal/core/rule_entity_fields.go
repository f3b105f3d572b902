package core

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shipyard/pkg/domain"
)

// EntityFieldsRule blocks created or updated materials and ships whose
// names are blank or longer than domain.MaxNameLength runes.
func EntityFieldsRule() domain.Rule {
	return entityFieldsRule{}
}

type entityFieldsRule struct{}

func (entityFieldsRule) Name() string { return "entity_fields" }

func (r entityFieldsRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Action == domain.ActionDelete || change.After == nil {
			continue
		}
		switch entity := change.After.(type) {
		case domain.Material:
			r.check(&res, domain.EntityMaterial, entity.ID, "name", entity.Name)
		case domain.Ship:
			r.check(&res, domain.EntityShip, entity.ID, "name", entity.Name)
			r.check(&res, domain.EntityShip, entity.ID, "designer", entity.Designer)
		}
	}
	return res, nil
}

func (r entityFieldsRule) check(res *domain.Result, entity domain.EntityType, id int64, field, value string) {
	var msg string
	switch {
	case strings.TrimSpace(value) == "":
		msg = fmt.Sprintf("%s %d: %s is required", entity, id, field)
	case utf8.RuneCountInString(value) > domain.MaxNameLength:
		msg = fmt.Sprintf("%s %d: %s exceeds %d characters", entity, id, field, domain.MaxNameLength)
	default:
		return
	}
	res.Violations = append(res.Violations, domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	})
}
