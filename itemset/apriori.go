package itemset

import (
	"context"
)

/*
Apriori takes a context, an encoding and a minimum support and returns every
itemset whose support is at least minSupport, sorted by size and then items.
Candidates of size k+1 are built joining frequent itemsets of size k that
share their first k-1 items, and discarded when any of their subsets of size
k is not frequent.
*/
func Apriori(ctx context.Context, enc *Encoding, minSupport float64) ([]Itemset, error) {
	if err := validSupport(minSupport); err != nil {
		return nil, err
	}
	total := len(enc.Rows)
	found := make(map[string]counted)
	if total == 0 {
		return itemsets(enc, found), nil
	}
	var level [][]int
	for i := range enc.Items {
		c := countRows(enc, []int{i})
		if frequent(c, total, minSupport) {
			level = append(level, []int{i})
			found[key([]int{i})] = counted{[]int{i}, c}
		}
	}
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next [][]int
		for _, candidate := range candidates(level, found) {
			c := countRows(enc, candidate)
			if frequent(c, total, minSupport) {
				next = append(next, candidate)
				found[key(candidate)] = counted{candidate, c}
			}
		}
		level = next
	}
	return itemsets(enc, found), nil
}

// candidates joins itemsets of a level sharing all but their last item,
// keeping the joins whose every subset is frequent. Items within an
// itemset are kept in ascending order.
func candidates(level [][]int, found map[string]counted) [][]int {
	var result [][]int
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			k := len(a)
			if !samePrefix(a, b, k-1) {
				continue
			}
			c := make([]int, k+1)
			copy(c, a)
			if a[k-1] < b[k-1] {
				c[k] = b[k-1]
			} else {
				c[k-1], c[k] = b[k-1], a[k-1]
			}
			if allSubsetsFrequent(c, found) {
				result = append(result, c)
			}
		}
	}
	return result
}

func samePrefix(a, b []int, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(c []int, found map[string]counted) bool {
	subset := make([]int, 0, len(c)-1)
	for skip := range c {
		subset = subset[:0]
		for i, item := range c {
			if i != skip {
				subset = append(subset, item)
			}
		}
		if _, ok := found[key(subset)]; !ok {
			return false
		}
	}
	return true
}

func countRows(enc *Encoding, items []int) int {
	var count int
	for _, row := range enc.Rows {
		all := true
		for _, i := range items {
			if !row[i] {
				all = false
				break
			}
		}
		if all {
			count++
		}
	}
	return count
}
