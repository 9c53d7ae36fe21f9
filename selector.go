package orchard

import (
	"context"
	"sort"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
)

// entropyTolerance absorbs float rounding when comparing
// weighted entropies, so ties are decided by rank.
const entropyTolerance = 1e-12

/*
Split represents the choice of a feature to partition the samples of
a node: its rank on the global feature order and the weighted entropy of
the target across the partition.
*/
type Split struct {
	Feature feature.Feature
	Rank    int
	Entropy float64
}

/*
SelectFeature takes a context, the samples of a node, the target feature, the
global feature order, the predicate of the node, a forced feature and a
minimum rank, and returns the Split to develop the node with, or nil when no
feature is eligible.

Eligible features are those of the order other than the target, not used by
the predicate and with a rank greater than minRank (-1 to allow any). An
eligible forced feature is chosen right away. Otherwise the feature with the
minimum weighted entropy of the target across its values wins, ties going to
the feature that comes first in the order.
*/
func SelectFeature(ctx context.Context, s dataset.Dataset, target feature.Feature, order []feature.Feature, used feature.Predicate, forced feature.Feature, minRank int) (*Split, error) {
	var best *Split
	for rank, f := range order {
		if rank <= minRank || f.Name() == target.Name() || used.Uses(f.Name()) {
			continue
		}
		if forced != nil && f.Name() == forced.Name() {
			e, err := weightedEntropy(ctx, s, f, target)
			if err != nil {
				return nil, err
			}
			return &Split{f, rank, e}, nil
		}
		e, err := weightedEntropy(ctx, s, f, target)
		if err != nil {
			return nil, err
		}
		if best == nil || e < best.Entropy-entropyTolerance {
			best = &Split{f, rank, e}
		}
	}
	return best, nil
}

/*
weightedEntropy returns the average entropy of the label over the partition
of the samples by the values of f, weighted by the size of each part.
*/
func weightedEntropy(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, error) {
	cross, err := s.CrossCountFeatureValues(ctx, f, label)
	if err != nil {
		return 0.0, err
	}
	values := make([]string, 0, len(cross))
	for v := range cross {
		values = append(values, v)
	}
	sort.Strings(values)
	var total int
	sizes := make([]int, len(values))
	for i, v := range values {
		for _, c := range cross[v] {
			sizes[i] += c
		}
		total += sizes[i]
	}
	if total == 0 {
		return 0.0, nil
	}
	var result float64
	for i, v := range values {
		result += float64(sizes[i]) / float64(total) * dataset.Entropy(cross[v])
	}
	return result, nil
}
