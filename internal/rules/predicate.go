// internal/rules/predicate.go
package rules

import (
	"fmt"
	"strings"

	"github.com/xenocrm/backend/internal/model"
)

// Eval reports whether the customer matches the compiled predicate,
// reading the customer's current attribute values.
func (p *Predicate) Eval(c *model.Customer) bool {
	for _, group := range p.groups {
		for _, cond := range group {
			if !cond.eval(c) {
				return false
			}
		}
	}
	return true
}

func (cond condition) eval(c *model.Customer) bool {
	if cond.field == model.RuleFieldLastVisit {
		switch cond.operator {
		case "<":
			return c.LastVisit.Before(cond.cutoff)
		case ">":
			return c.LastVisit.After(cond.cutoff)
		case "<=":
			return !c.LastVisit.After(cond.cutoff)
		case ">=":
			return !c.LastVisit.Before(cond.cutoff)
		case "=":
			// Exact timestamp equality, kept as-is.
			return c.LastVisit.Equal(cond.cutoff)
		}
		return false
	}

	var v float64
	if cond.field == model.RuleFieldTotalSpends {
		v = c.TotalSpends
	} else {
		v = float64(c.Visits)
	}
	switch cond.operator {
	case ">":
		return v > cond.number
	case "<":
		return v < cond.number
	case ">=":
		return v >= cond.number
	case "<=":
		return v <= cond.number
	case "=":
		return v == cond.number
	}
	return false
}

var columns = map[string]string{
	model.RuleFieldTotalSpends: "total_spends",
	model.RuleFieldVisits:      "visits",
	model.RuleFieldLastVisit:   "last_visit",
}

// SQL renders the predicate as a WHERE clause with $n placeholders
// starting at argPos. It returns the clause, its arguments, and the next
// free placeholder position. Matching via the clause and via Eval must
// select the same customers.
func (p *Predicate) SQL(argPos int) (string, []interface{}, int) {
	if len(p.groups) == 0 {
		return "1=1", nil, argPos
	}

	args := []interface{}{}
	groupClauses := make([]string, 0, len(p.groups))
	for _, group := range p.groups {
		parts := make([]string, 0, len(group))
		for _, cond := range group {
			parts = append(parts, fmt.Sprintf("%s %s $%d", columns[cond.field], cond.operator, argPos))
			if cond.field == model.RuleFieldLastVisit {
				args = append(args, cond.cutoff)
			} else {
				args = append(args, cond.number)
			}
			argPos++
		}
		groupClauses = append(groupClauses, "("+strings.Join(parts, " AND ")+")")
	}

	return strings.Join(groupClauses, " AND "), args, argPos
}
