package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
)

/*
ConfidenceEntry holds the fraction of the rows of a node that take a value
of the target feature.
*/
type ConfidenceEntry struct {
	Value      interface{}
	Confidence float64
}

/*
ConfidenceMap represents the distribution of the target feature on the rows
of a node, restricted to the values whose confidence is strictly greater
than a floor. An empty map is valid: no value was confident enough.
*/
type ConfidenceMap struct {
	entries []ConfidenceEntry
	weight  int
}

/*
NewConfidenceMap takes a slice of entries and the number of rows from which
they were computed and returns a ConfidenceMap with them. Entries are kept in
the order given.
*/
func NewConfidenceMap(entries []ConfidenceEntry, weight int) *ConfidenceMap {
	return &ConfidenceMap{entries: entries, weight: weight}
}

/*
NewConfidenceMapFromSet takes a context, a dataset, a target feature and a
confidence floor and returns the ConfidenceMap of the target on the dataset,
keeping only values with a confidence strictly greater than the floor, in
natural value order. An empty dataset yields an empty map.
*/
func NewConfidenceMapFromSet(ctx context.Context, s dataset.Dataset, target feature.Feature, floor float64) (*ConfidenceMap, error) {
	weight, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	cm := &ConfidenceMap{weight: weight}
	if weight == 0 {
		return cm, nil
	}
	values, err := s.FeatureValues(ctx, target)
	if err != nil {
		return nil, err
	}
	counts, err := s.CountFeatureValues(ctx, target)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		c := float64(counts[feature.Format(v)]) / float64(weight)
		if c > floor {
			cm.entries = append(cm.entries, ConfidenceEntry{v, c})
		}
	}
	return cm, nil
}

// Entries returns the entries of the map in natural value order.
func (cm *ConfidenceMap) Entries() []ConfidenceEntry {
	if cm == nil {
		return nil
	}
	return cm.entries
}

// Len returns the number of entries on the map.
func (cm *ConfidenceMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.entries)
}

/*
ConfidenceOf takes a value and returns its confidence and true if the value
is on the map, or 0 and false otherwise.
*/
func (cm *ConfidenceMap) ConfidenceOf(value interface{}) (float64, bool) {
	for _, e := range cm.Entries() {
		if feature.Compare(e.Value, value) == 0 {
			return e.Confidence, true
		}
	}
	return 0.0, false
}

/*
Weight returns the number of rows from which the map was computed.
*/
func (cm *ConfidenceMap) Weight() int {
	if cm == nil {
		return 0
	}
	return cm.weight
}

func (cm *ConfidenceMap) String() string {
	parts := make([]string, 0, cm.Len())
	for _, e := range cm.Entries() {
		parts = append(parts, fmt.Sprintf("%s:%v", feature.Format(e.Value), e.Confidence))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
