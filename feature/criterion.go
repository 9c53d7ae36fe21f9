package feature

import (
	"context"
	"fmt"
	"strings"
)

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the given value satisfies the feature criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the feature
passed as parameter.
*/
type Sample interface {
	ValueFor(context.Context, Feature) (interface{}, error)
}

/*
DiscreteCriterion represents a constraint on a discrete feature, a
value it must take. Its string representation is the clause
"feature=value".

Its Value method returns the value to which the feature is constrained.
*/
type DiscreteCriterion interface {
	Criterion
	Value() interface{}
	String() string
}

type discreteCriterion struct {
	feature Feature
	value   interface{}
}

/*
NewDiscreteCriterion takes a feature and a value and returns a
DiscreteCriterion satisfied by samples taking that value for the feature.
*/
func NewDiscreteCriterion(feature Feature, value interface{}) DiscreteCriterion {
	return &discreteCriterion{feature, value}
}

/*
Feature returns the feature to which the constraint applies.
*/
func (dfc *discreteCriterion) Feature() Feature {
	return dfc.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature, true if the value equals the one on the
criterion according to Compare; and false otherwise.
*/
func (dfc *discreteCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, dfc.feature)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	return Compare(val, dfc.value) == 0, nil
}

func (dfc *discreteCriterion) Value() interface{} {
	return dfc.value
}

func (dfc *discreteCriterion) String() string {
	return fmt.Sprintf("%s=%s", dfc.feature.Name(), Format(dfc.value))
}

/*
ParseClause takes a clause string and the features it may refer to and
returns the DiscreteCriterion it represents. Both "feature=value" and
"feature==value" are accepted, spaces around the operator are ignored and
the value may be surrounded by single or double quotes.
*/
func ParseClause(clause string, features []Feature) (DiscreteCriterion, error) {
	clause = strings.TrimSpace(clause)
	i := strings.Index(clause, "=")
	if i < 0 {
		return nil, fmt.Errorf("clause %q has no '=' operator", clause)
	}
	name := strings.TrimSpace(clause[:i])
	raw := strings.TrimPrefix(clause[i+1:], "=")
	raw = strings.TrimSpace(raw)
	if name == "" {
		return nil, fmt.Errorf("clause %q has no feature name", clause)
	}
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	if raw == "" {
		return nil, fmt.Errorf("clause %q has no value", clause)
	}
	f := Find(features, name)
	if f == nil {
		return nil, fmt.Errorf("clause %q refers to unknown feature %q", clause, name)
	}
	var value interface{} = raw
	if df, ok := f.(*DiscreteFeature); ok {
		var err error
		value, err = df.ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("clause %q: %w", clause, err)
		}
	}
	return NewDiscreteCriterion(f, value), nil
}
