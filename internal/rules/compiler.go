// internal/rules/compiler.go
package rules

import (
	"strconv"
	"time"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
)

// condition is one compiled comparison. For lastVisit rules the operator
// has already been rewritten into a plain timestamp comparison against
// cutoff, so Eval and SQL never re-apply the recency inversion.
type condition struct {
	field    string
	operator string
	number   float64
	cutoff   time.Time
}

// Predicate is a compiled rule set: an AND of groups, each group an AND
// of its conditions. An empty Predicate matches every customer.
type Predicate struct {
	groups [][]condition
}

// Compile translates an ordered rule set into a Predicate, pinning
// relative-date rules to the current time.
func Compile(ruleSet []model.Rule) (*Predicate, error) {
	return CompileAt(ruleSet, time.Now())
}

// CompileAt is Compile with an explicit reference time.
func CompileAt(ruleSet []model.Rule, now time.Time) (*Predicate, error) {
	if len(ruleSet) == 0 {
		return &Predicate{}, nil
	}

	conds := make([]condition, len(ruleSet))
	for i, r := range ruleSet {
		c, err := compileRule(r, now)
		if err != nil {
			return nil, err
		}
		conds[i] = c
	}

	// Consecutive AND rules stay in one group; an OR on a later rule
	// closes the group and starts the next one. Groups are still joined
	// with AND at the top level — that is the audience the rule builder
	// has always produced, so it stays that way.
	groups := [][]condition{}
	current := []condition{conds[0]}
	for i := 1; i < len(ruleSet); i++ {
		if ruleSet[i].Logic == model.RuleLogicOr {
			groups = append(groups, current)
			current = []condition{conds[i]}
		} else {
			current = append(current, conds[i])
		}
	}
	groups = append(groups, current)

	return &Predicate{groups: groups}, nil
}

func compileRule(r model.Rule, now time.Time) (condition, error) {
	switch r.Field {
	case model.RuleFieldLastVisit:
		days, err := strconv.Atoi(r.Value)
		if err != nil || days < 0 {
			return condition{}, appErrors.NewInvalidRule(r.Field, r.Operator, r.Value, "value must be a non-negative day count")
		}
		cutoff := now.AddDate(0, 0, -days)

		// "lastVisit > N" means "last seen more than N days ago", so the
		// comparison direction flips against the cutoff timestamp.
		var op string
		switch r.Operator {
		case ">":
			op = "<"
		case "<":
			op = ">"
		case ">=":
			op = "<="
		case "<=":
			op = ">="
		case "=":
			op = "="
		default:
			return condition{}, appErrors.NewInvalidRule(r.Field, r.Operator, r.Value, "unsupported operator")
		}
		return condition{field: r.Field, operator: op, cutoff: cutoff}, nil

	case model.RuleFieldTotalSpends, model.RuleFieldVisits:
		n, err := strconv.ParseFloat(r.Value, 64)
		if err != nil {
			return condition{}, appErrors.NewInvalidRule(r.Field, r.Operator, r.Value, "value must be numeric")
		}
		switch r.Operator {
		case ">", "<", ">=", "<=", "=":
		default:
			return condition{}, appErrors.NewInvalidRule(r.Field, r.Operator, r.Value, "unsupported operator")
		}
		return condition{field: r.Field, operator: r.Operator, number: n}, nil

	default:
		return condition{}, appErrors.NewInvalidRule(r.Field, r.Operator, r.Value, "unknown field")
	}
}
