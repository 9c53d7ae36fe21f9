package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbanos/orchard/feature"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents an immutable categorical table: an ordered collection of
features (columns) and the samples (rows) observing them.

Its Features method returns the features in declaration order, which is the
global attribute ordering used to break ties.

Its Entropy method returns the entropy of the dataset for a given Feature: a
measure of the disinformation we have on the values of the samples that
belong to it.

Its SubsetWith method takes a feature.Criterion and returns a subset that only
contains samples that satisfy it. The receiver is never modified.

Its FeatureValues method returns the distinct values a feature takes on the
dataset in natural order.

Its CountFeatureValues method returns how many samples take each value of
a feature, keyed by the formatted value, and CrossCountFeatureValues does the
same for each value of a second feature within each partition of the first.

Its Samples method returns the samples it contains
*/
type Dataset interface {
	Features() []feature.Feature
	Entropy(context.Context, feature.Feature) (float64, error)
	SubsetWith(context.Context, feature.Criterion) (Dataset, error)
	FeatureValues(context.Context, feature.Feature) ([]interface{}, error)
	CountFeatureValues(context.Context, feature.Feature) (map[string]int, error)
	CrossCountFeatureValues(ctx context.Context, f, label feature.Feature) (map[string]map[string]int, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Criteria(context.Context) ([]feature.Criterion, error)
}

type memoryIntensiveSubsettingDataset struct {
	features []feature.Feature
	samples  []Sample
	criteria []feature.Criterion
}

type cpuIntensiveSubsettingDataset struct {
	features []feature.Feature
	samples  []Sample
	criteria []feature.Criterion
}

/*
New takes a slice of features and a slice of samples and returns a dataset
built with them. The dataset will be a CPU intensive one when the number of
samples is over sampleCountThresholdForDatasetImplementation.
*/
func New(features []feature.Feature, samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return NewCPUIntensive(features, samples)
	}
	return NewMemoryIntensive(features, samples)
}

/*
NewMemoryIntensive takes a slice of features and a slice of samples and
returns a Dataset built with them. A memory-intensive dataset is an
implementation that replicates the slice of samples when subsetting to reduce
calculations at the cost of increased memory.
*/
func NewMemoryIntensive(features []feature.Feature, samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{features, samples, nil}
}

/*
NewCPUIntensive takes a slice of features and a slice of samples and returns
a Dataset built with them. A cpu-intensive dataset is an implementation that
instead of replicating the samples when subsetting, stores the
applying feature criteria to define the subset and keeps the same
sample slice. This can achieve a drastic reduction in memory use
that comes at the cost of CPU time: every calculation that goes over
the samples of the dataset will apply the feature criteria of the dataset
on all original samples (the ones provided to this method).
*/
func NewCPUIntensive(features []feature.Feature, samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{features, samples, nil}
}

/*
FromRows takes a slice of features and rows of values, one value per feature
in the same order, and returns a Dataset with them or an error if there are
no features, a row has the wrong number of values or a value is not valid for
its feature (nil values included).
*/
func FromRows(features []feature.Feature, rows [][]interface{}) (Dataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("dataset needs at least one feature")
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if seen[f.Name()] {
			return nil, fmt.Errorf("duplicated feature %q", f.Name())
		}
		seen[f.Name()] = true
	}
	samples := make([]Sample, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(features) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(features))
		}
		values := make(map[string]interface{}, len(features))
		for j, f := range features {
			if ok, err := f.Valid(row[j]); !ok {
				return nil, fmt.Errorf("row %d: %v", i, err)
			}
			values[f.Name()] = row[j]
		}
		samples = append(samples, NewSample(values))
	}
	return New(features, samples), nil
}

func (s *memoryIntensiveSubsettingDataset) Features() []feature.Feature {
	return s.features
}

func (s *cpuIntensiveSubsettingDataset) Features() []feature.Feature {
	return s.features
}

func (s *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	return length, err
}

func (s *memoryIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	return entropy(ctx, s, f)
}

func (s *cpuIntensiveSubsettingDataset) Entropy(ctx context.Context, f feature.Feature) (float64, error) {
	return entropy(ctx, s, f)
}

func (s *memoryIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return featureValues(ctx, s, f)
}

func (s *cpuIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	return featureValues(ctx, s, f)
}

func (s *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	var samples []Sample
	for _, sample := range s.samples {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{s.features, samples, append([]feature.Criterion{fc}, s.criteria...)}, nil
}

func (s *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	criteria := append([]feature.Criterion{fc}, s.criteria...)
	return &cpuIntensiveSubsettingDataset{s.features, s.samples, criteria}, nil
}

func (s *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *memoryIntensiveSubsettingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	return countFeatureValues(ctx, s, f)
}

func (s *cpuIntensiveSubsettingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	return countFeatureValues(ctx, s, f)
}

func (s *memoryIntensiveSubsettingDataset) CrossCountFeatureValues(ctx context.Context, f, label feature.Feature) (map[string]map[string]int, error) {
	return crossCountFeatureValues(ctx, s, f, label)
}

func (s *cpuIntensiveSubsettingDataset) CrossCountFeatureValues(ctx context.Context, f, label feature.Feature) (map[string]map[string]int, error) {
	return crossCountFeatureValues(ctx, s, f, label)
}

func (s *memoryIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *cpuIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *memoryIntensiveSubsettingDataset) String() string {
	return fmt.Sprintf("[ %v ]", len(s.samples))
}

func (s *cpuIntensiveSubsettingDataset) String() string {
	count, _ := s.Count(context.TODO())
	return fmt.Sprintf("[ %v ]", count)
}

func (s *memoryIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, sample := range s.samples {
		ok, err := lambda(sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func (s *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, sample := range s.samples {
		skip := false
		for _, criterion := range s.criteria {
			ok, err := criterion.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

type iterable interface {
	iterateOnDataset(context.Context, func(Sample) (bool, error)) error
}

func entropy(ctx context.Context, s iterable, f feature.Feature) (float64, error) {
	counts, err := countFeatureValues(ctx, s, f)
	if err != nil {
		return 0.0, err
	}
	return Entropy(counts), nil
}

func featureValues(ctx context.Context, s iterable, f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v == nil {
			return true, nil
		}
		vString := feature.Format(v)
		if !encountered[vString] {
			encountered[vString] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool { return feature.Compare(result[i], result[j]) < 0 })
	return result, nil
}

func countFeatureValues(ctx context.Context, s iterable, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		if v != nil {
			result[feature.Format(v)]++
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func crossCountFeatureValues(ctx context.Context, s iterable, f, label feature.Feature) (map[string]map[string]int, error) {
	result := make(map[string]map[string]int)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return false, err
		}
		lv, err := sample.ValueFor(ctx, label)
		if err != nil {
			return false, err
		}
		if v == nil || lv == nil {
			return true, nil
		}
		vString := feature.Format(v)
		counts, ok := result[vString]
		if !ok {
			counts = make(map[string]int)
			result[vString] = counts
		}
		counts[feature.Format(lv)]++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
