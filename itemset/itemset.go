/*
Package itemset mines rules from frequent itemsets: a dataset is encoded as
a boolean table of "feature=value" items, the sets of items that appear
together often enough are found with Apriori or FP-growth, and every split of
a frequent itemset into antecedent and consequent becomes a candidate rule.
*/
package itemset

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/pbanos/orchard/rule"
)

/*
Encoding is the one-hot encoding of a dataset: Items holds the sorted
"feature=value" items and Rows tells, for every sample, which items it has.
*/
type Encoding struct {
	Items []string
	Rows  [][]bool
}

/*
Itemset is a set of items along with the fraction of the rows that hold all
of them.
*/
type Itemset struct {
	Items   rule.ItemSet
	Support float64
}

/*
OneHot takes a context and a dataset and returns its one-hot encoding: an
item per value taken by every feature.
*/
func OneHot(ctx context.Context, ds dataset.Dataset) (*Encoding, error) {
	samples, err := ds.Samples(ctx)
	if err != nil {
		return nil, err
	}
	features := ds.Features()
	transactions := make([][]string, 0, len(samples))
	seen := make(map[string]bool)
	var items []string
	for _, s := range samples {
		t := make([]string, 0, len(features))
		for _, f := range features {
			v, err := s.ValueFor(ctx, f)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			item := feature.NewDiscreteCriterion(f, v).String()
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
			t = append(t, item)
		}
		transactions = append(transactions, t)
	}
	sort.Strings(items)
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[item] = i
	}
	rows := make([][]bool, 0, len(transactions))
	for _, t := range transactions {
		row := make([]bool, len(items))
		for _, item := range t {
			row[index[item]] = true
		}
		rows = append(rows, row)
	}
	return &Encoding{Items: items, Rows: rows}, nil
}

/*
MinerFunc finds the itemsets of an encoding with a support of at least
minSupport.
*/
type MinerFunc func(ctx context.Context, enc *Encoding, minSupport float64) ([]Itemset, error)

/*
Miner returns the MinerFunc for the given method name, "apriori" or
"fpgrowth", or an error for any other name.
*/
func Miner(method string) (MinerFunc, error) {
	switch method {
	case "apriori":
		return Apriori, nil
	case "fpgrowth":
		return FPGrowth, nil
	}
	return nil, fmt.Errorf("unknown itemset mining method %q", method)
}

/*
AssociationRules takes frequent itemsets, the name of a metric and a
threshold and returns a rule for every split of each itemset of two or more
items into antecedent and consequent whose metric is at least the threshold.
The support of a rule is the support of its antecedent. Itemsets must be
closed under subsets, as the ones Apriori and FPGrowth return are.
*/
func AssociationRules(itemsets []Itemset, metric string, minThreshold float64) (rule.Table, error) {
	if err := rule.ValidMetric(metric); err != nil {
		return nil, err
	}
	supports := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		supports[is.Items.Key()] = is.Support
	}
	rules := rule.Table{}
	for _, is := range itemsets {
		n := len(is.Items)
		if n < 2 {
			continue
		}
		if n > 62 {
			return nil, fmt.Errorf("itemset %s has too many items", is.Items)
		}
		for mask := uint64(1); mask < (uint64(1)<<n)-1; mask++ {
			var a, c []string
			for i, item := range is.Items {
				if mask&(uint64(1)<<i) != 0 {
					a = append(a, item)
				} else {
					c = append(c, item)
				}
			}
			antecedent, consequent := rule.NewItemSet(a...), rule.NewItemSet(c...)
			sA, okA := supports[antecedent.Key()]
			sC, okC := supports[consequent.Key()]
			if !okA || !okC {
				return nil, fmt.Errorf("missing support for subsets of itemset %s", is.Items)
			}
			confidence := is.Support / sA
			r := rule.Rule{
				Antecedent:        antecedent,
				Consequent:        consequent,
				Support:           sA,
				Confidence:        confidence,
				Lift:              rule.LiftOf(confidence, sC),
				ConsequentSupport: sC,
			}
			value, err := r.Metric(metric)
			if err != nil {
				return nil, err
			}
			if value >= minThreshold {
				rules = append(rules, r)
			}
		}
	}
	return rules, nil
}

func validSupport(minSupport float64) error {
	if !(minSupport > 0 && minSupport <= 1) {
		return fmt.Errorf("min support must be in (0, 1], got %v", minSupport)
	}
	return nil
}

// itemsets turns sets of item indexes with their counts into sorted Itemsets.
func itemsets(enc *Encoding, found map[string]counted) []Itemset {
	result := make([]Itemset, 0, len(found))
	for _, fc := range found {
		items := make([]string, 0, len(fc.items))
		for _, i := range fc.items {
			items = append(items, enc.Items[i])
		}
		result = append(result, Itemset{rule.NewItemSet(items...), float64(fc.count) / float64(len(enc.Rows))})
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Items) != len(result[j].Items) {
			return len(result[i].Items) < len(result[j].Items)
		}
		return result[i].Items.Key() < result[j].Items.Key()
	})
	return result
}

type counted struct {
	items []int
	count int
}

func key(items []int) string {
	sorted := append([]int{}, items...)
	sort.Ints(sorted)
	return fmt.Sprint(sorted)
}

func frequent(count, total int, minSupport float64) bool {
	return float64(count)/float64(total) >= minSupport
}
