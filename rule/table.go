package rule

import (
	"fmt"
	"regexp"
	"strings"
)

// Table is a collection of rules.
type Table []Rule

// Concat returns a table with the rules of every given table, in order.
func Concat(tables ...Table) Table {
	var n int
	for _, t := range tables {
		n += len(t)
	}
	result := make(Table, 0, n)
	for _, t := range tables {
		result = append(result, t...)
	}
	return result
}

/*
Dedupe returns a table without repeated rules, keeping the first occurrence
of rules with the same antecedent and consequent sets.
*/
func (t Table) Dedupe() Table {
	seen := make(map[string]bool, len(t))
	result := make(Table, 0, len(t))
	for _, r := range t {
		k := r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, r)
	}
	return result
}

/*
Filter takes an antecedent and a consequent expression and returns the rules
of the table with exactly those antecedent and consequent sets. Expressions
are conjunctions of clauses joined by "&" or "&&", each clause being
"feature=value" or "feature==value". An empty consequent matches any
consequent. A *ParseError is returned for malformed expressions.
*/
func (t Table) Filter(antecedent, consequent string) (Table, error) {
	a, err := ParseItemSet(antecedent)
	if err != nil {
		return nil, err
	}
	var c ItemSet
	if strings.TrimSpace(consequent) != "" {
		c, err = ParseItemSet(consequent)
		if err != nil {
			return nil, err
		}
	}
	result := Table{}
	for _, r := range t {
		if !r.Antecedent.Equal(a) {
			continue
		}
		if c != nil && !r.Consequent.Equal(c) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

/*
ParseError describes a malformed rule expression.
*/
type ParseError struct {
	Expression string
	Clause     string
	Reason     string
}

func (e *ParseError) Error() string {
	if e.Clause == "" {
		return fmt.Sprintf("invalid expression %q: %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("invalid expression %q: clause %q %s", e.Expression, e.Clause, e.Reason)
}

var conjunction = regexp.MustCompile(`\s*&{1,2}\s*`)

/*
ParseItemSet takes a conjunction expression and returns the ItemSet of its
clauses in their canonical "feature=value" form.
*/
func ParseItemSet(expression string) (ItemSet, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, &ParseError{Expression: expression, Reason: "is empty"}
	}
	var items []string
	for _, clause := range conjunction.Split(trimmed, -1) {
		item, reason := parseClause(clause)
		if reason != "" {
			return nil, &ParseError{Expression: expression, Clause: clause, Reason: reason}
		}
		items = append(items, item)
	}
	return NewItemSet(items...), nil
}

func parseClause(clause string) (string, string) {
	if clause == "" {
		return "", "is empty"
	}
	i := strings.Index(clause, "=")
	if i < 0 {
		return "", "has no '=' operator"
	}
	name := strings.TrimSpace(clause[:i])
	value := strings.TrimSpace(strings.TrimPrefix(clause[i+1:], "="))
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	switch {
	case name == "":
		return "", "has no feature name"
	case value == "":
		return "", "has no value"
	case strings.Contains(value, "="):
		return "", "has more than one operator"
	}
	return name + "=" + value, ""
}
