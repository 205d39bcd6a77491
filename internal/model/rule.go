// internal/model/rule.go
package model

// Fields a rule can compare against.
const (
	RuleFieldTotalSpends = "totalSpends"
	RuleFieldVisits      = "visits"
	RuleFieldLastVisit   = "lastVisit"
)

// Logic joining a rule to the one before it.
const (
	RuleLogicAnd = "AND"
	RuleLogicOr  = "OR"
)

// Rule is one comparison in an audience definition. Logic is ignored on
// the first rule of a set (there is nothing to its left to join).
type Rule struct {
	ID       string `json:"id,omitempty"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Logic    string `json:"logic,omitempty"`
}
