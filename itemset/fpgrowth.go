package itemset

import (
	"context"
	"sort"
)

type fpNode struct {
	item     int
	count    int
	parent   *fpNode
	children map[int]*fpNode
	next     *fpNode
}

type fpTree struct {
	root   *fpNode
	heads  map[int]*fpNode
	counts map[int]int
}

/*
FPGrowth takes a context, an encoding and a minimum support and returns the
same itemsets as Apriori, without generating candidates: the rows are
compressed into a prefix tree of their frequent items, which is mined
recursively through the conditional trees of every item.
*/
func FPGrowth(ctx context.Context, enc *Encoding, minSupport float64) ([]Itemset, error) {
	if err := validSupport(minSupport); err != nil {
		return nil, err
	}
	total := len(enc.Rows)
	found := make(map[string]counted)
	if total == 0 {
		return itemsets(enc, found), nil
	}
	transactions := make([][]int, 0, total)
	weights := make([]int, 0, total)
	for _, row := range enc.Rows {
		var t []int
		for i, ok := range row {
			if ok {
				t = append(t, i)
			}
		}
		transactions = append(transactions, t)
		weights = append(weights, 1)
	}
	isFrequent := func(c int) bool { return frequent(c, total, minSupport) }
	t := buildFPTree(transactions, weights, isFrequent)
	err := mineFPTree(ctx, t, nil, isFrequent, found)
	if err != nil {
		return nil, err
	}
	return itemsets(enc, found), nil
}

// buildFPTree inserts the frequent items of every weighted transaction into
// a new tree, most frequent items first.
func buildFPTree(transactions [][]int, weights []int, isFrequent func(int) bool) *fpTree {
	counts := make(map[int]int)
	for i, t := range transactions {
		for _, item := range t {
			counts[item] += weights[i]
		}
	}
	for item, c := range counts {
		if !isFrequent(c) {
			delete(counts, item)
		}
	}
	t := &fpTree{
		root:   &fpNode{item: -1, children: make(map[int]*fpNode)},
		heads:  make(map[int]*fpNode),
		counts: counts,
	}
	for i, transaction := range transactions {
		items := make([]int, 0, len(transaction))
		for _, item := range transaction {
			if _, ok := counts[item]; ok {
				items = append(items, item)
			}
		}
		sort.Slice(items, func(a, b int) bool {
			if counts[items[a]] != counts[items[b]] {
				return counts[items[a]] > counts[items[b]]
			}
			return items[a] < items[b]
		})
		t.insert(items, weights[i])
	}
	return t
}

func (t *fpTree) insert(items []int, weight int) {
	n := t.root
	for _, item := range items {
		child, ok := n.children[item]
		if !ok {
			child = &fpNode{item: item, parent: n, children: make(map[int]*fpNode), next: t.heads[item]}
			t.heads[item] = child
			n.children[item] = child
		}
		child.count += weight
		n = child
	}
}

// mineFPTree records every frequent itemset of the tree extended with the
// suffix, recursing on the conditional tree of each item.
func mineFPTree(ctx context.Context, t *fpTree, suffix []int, isFrequent func(int) bool, found map[string]counted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items := make([]int, 0, len(t.counts))
	for item := range t.counts {
		items = append(items, item)
	}
	sort.Ints(items)
	for _, item := range items {
		itemset := append([]int{item}, suffix...)
		found[key(itemset)] = counted{itemset, t.counts[item]}
		var paths [][]int
		var weights []int
		for n := t.heads[item]; n != nil; n = n.next {
			var path []int
			for p := n.parent; p != nil && p.item >= 0; p = p.parent {
				path = append(path, p.item)
			}
			if len(path) > 0 {
				paths = append(paths, path)
				weights = append(weights, n.count)
			}
		}
		if len(paths) == 0 {
			continue
		}
		conditional := buildFPTree(paths, weights, isFrequent)
		if len(conditional.counts) == 0 {
			continue
		}
		err := mineFPTree(ctx, conditional, itemset, isFrequent, found)
		if err != nil {
			return err
		}
	}
	return nil
}
