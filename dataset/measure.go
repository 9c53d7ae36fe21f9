package dataset

import (
	"context"
	"math"
	"sort"

	"github.com/pbanos/orchard/feature"
)

/*
Entropy takes the number of samples taking each value of a feature and
returns the Shannon entropy in bits of that distribution. A distribution with a
single value has an entropy of exactly 0. Terms are added in key order so the
result does not depend on map iteration order.
*/
func Entropy(counts map[string]int) float64 {
	keys := make([]string, 0, len(counts))
	var total float64
	for k, c := range counts {
		if c <= 0 {
			continue
		}
		keys = append(keys, k)
		total += float64(c)
	}
	if len(keys) <= 1 {
		return 0.0
	}
	sort.Strings(keys)
	var result float64
	for _, k := range keys {
		p := float64(counts[k]) / total
		result -= p * math.Log2(p)
	}
	return result
}

/*
Support takes a context, a dataset and a predicate and returns the fraction of
the samples of the dataset that satisfy the predicate. Pass the whole dataset
to obtain the global support. The empty predicate has a support of 1 and an
empty dataset a support of 0.
*/
func Support(ctx context.Context, s Dataset, p feature.Predicate) (float64, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	if total == 0 {
		return 0.0, nil
	}
	if len(p) == 0 {
		return 1.0, nil
	}
	matching, err := CountSatisfying(ctx, s, p)
	if err != nil {
		return 0.0, err
	}
	return float64(matching) / float64(total), nil
}

// CountSatisfying returns the number of samples of the dataset that satisfy
// the given predicate.
func CountSatisfying(ctx context.Context, s Dataset, p feature.Predicate) (int, error) {
	samples, err := s.Samples(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	for _, sample := range samples {
		ok, err := p.SatisfiedBy(ctx, sample)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// Subset returns the subset of the dataset whose samples satisfy every
// criterion of the predicate.
func Subset(ctx context.Context, s Dataset, p feature.Predicate) (Dataset, error) {
	var err error
	for _, c := range p {
		s, err = s.SubsetWith(ctx, c)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
