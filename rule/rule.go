/*
Package rule defines the "if antecedent then consequent" records both
mining methods produce, along with the tables that collect them.
*/
package rule

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Names of the metrics a rule can be measured with.
const (
	Support      = "support"
	Confidence   = "confidence"
	Lift         = "lift"
	Leverage     = "leverage"
	Conviction   = "conviction"
	ZhangsMetric = "zhangs_metric"
)

// Metrics lists the metrics that can rank rules besides support.
var Metrics = []string{Confidence, Lift, Leverage, Conviction, ZhangsMetric}

/*
ItemSet is a canonical set of "feature=value" items: sorted and without
duplicates, so two sets with the same items compare equal whatever the order
in which they were built.
*/
type ItemSet []string

// NewItemSet returns the canonical ItemSet with the given items.
func NewItemSet(items ...string) ItemSet {
	s := make(ItemSet, 0, len(items))
	s = append(s, items...)
	sort.Strings(s)
	j := 0
	for i := range s {
		if i > 0 && s[i] == s[j-1] {
			continue
		}
		s[j] = s[i]
		j++
	}
	return s[:j]
}

// Key returns a string identifying the set, equal for equal sets.
func (s ItemSet) Key() string {
	return strings.Join(s, "\x00")
}

func (s ItemSet) String() string {
	return strings.Join(s, " & ")
}

// Contains returns whether the item belongs to the set.
func (s ItemSet) Contains(item string) bool {
	i := sort.SearchStrings(s, item)
	return i < len(s) && s[i] == item
}

// Equal returns whether both sets hold the same items.
func (s ItemSet) Equal(o ItemSet) bool {
	return s.Key() == o.Key()
}

/*
Rule represents an association "if Antecedent then Consequent".

Support is the support of the antecedent over the whole dataset, Confidence
the fraction of the rows satisfying the antecedent that also satisfy the
consequent and ConsequentSupport the support of the consequent alone. The
rest of the metrics derive from these.
*/
type Rule struct {
	Antecedent        ItemSet
	Consequent        ItemSet
	Support           float64
	Confidence        float64
	Lift              float64
	ConsequentSupport float64
}

// Key identifies the rule by its antecedent and consequent sets.
func (r Rule) Key() string {
	return r.Antecedent.Key() + "\x01" + r.Consequent.Key()
}

// JointSupport returns the support of antecedent and consequent together.
func (r Rule) JointSupport() float64 {
	return r.Support * r.Confidence
}

// Leverage returns the difference between the joint support and the one
// expected if antecedent and consequent were independent.
func (r Rule) Leverage() float64 {
	return r.JointSupport() - r.Support*r.ConsequentSupport
}

// Conviction returns (1 - consequent support) / (1 - confidence), +Inf
// for rules that always hold.
func (r Rule) Conviction() float64 {
	if r.Confidence >= 1 {
		return math.Inf(1)
	}
	return (1 - r.ConsequentSupport) / (1 - r.Confidence)
}

// ZhangsMetric returns Zhang's association measure in [-1, 1], 0 when it is
// undefined.
func (r Rule) ZhangsMetric() float64 {
	sAC := r.JointSupport()
	sA, sC := r.Support, r.ConsequentSupport
	denominator := math.Max(sAC*(1-sA), sA*(sC-sAC))
	if denominator == 0 {
		return 0
	}
	return (sAC - sA*sC) / denominator
}

/*
Metric takes the name of a metric and returns its value for the rule or an
error if the metric is unknown.
*/
func (r Rule) Metric(name string) (float64, error) {
	switch name {
	case Support:
		return r.Support, nil
	case Confidence:
		return r.Confidence, nil
	case Lift:
		return r.Lift, nil
	case Leverage:
		return r.Leverage(), nil
	case Conviction:
		return r.Conviction(), nil
	case ZhangsMetric:
		return r.ZhangsMetric(), nil
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

func (r Rule) String() string {
	return fmt.Sprintf("{%s} -> {%s} support=%v confidence=%v lift=%v", r.Antecedent, r.Consequent, r.Support, r.Confidence, r.Lift)
}

/*
LiftOf takes the confidence of a rule and the marginal support of its
consequent and returns the lift of the rule, 0 when the marginal is 0.
*/
func LiftOf(confidence, marginal float64) float64 {
	if marginal == 0 {
		return 0
	}
	return confidence / marginal
}

// ValidMetric returns an error unless name is support or one of Metrics.
func ValidMetric(name string) error {
	if name == Support {
		return nil
	}
	for _, m := range Metrics {
		if m == name {
			return nil
		}
	}
	return fmt.Errorf("unknown metric %q, expected one of %s", name, strings.Join(Metrics, ", "))
}
