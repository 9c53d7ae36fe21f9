package feature

import (
	"fmt"
	"math"
	"sort"
)

/*
Feature represents a property that can be observed: a column of a
categorical dataset.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

// Kind tells how the values of a discrete feature are ordered.
type Kind int

const (
	// Text features take string values ordered lexicographically.
	Text Kind = iota
	// Numeric features take float64 values ordered numerically.
	Numeric
)

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. Values are atoms: strings for Text features
and float64 for Numeric ones.
*/
type DiscreteFeature struct {
	name            string
	kind            Kind
	availableValues []interface{}
}

/*
NewDiscreteFeature takes a name string, a kind and an optional slice of
available values and returns a discrete feature with them. When no values
are given, any value of the right kind is valid. The available values are
kept in natural order.
*/
func NewDiscreteFeature(name string, kind Kind, availableValues []interface{}) *DiscreteFeature {
	values := append([]interface{}{}, availableValues...)
	sort.SliceStable(values, func(i, j int) bool { return Compare(values[i], values[j]) < 0 })
	return &DiscreteFeature{name, kind, values}
}

/*
NewTextFeature returns a Text discrete feature with the given name that
accepts any string value.
*/
func NewTextFeature(name string) *DiscreteFeature {
	return &DiscreteFeature{name: name, kind: Text}
}

/*
NewNumericFeature returns a Numeric discrete feature with the given name that
accepts any float64 value.
*/
func NewNumericFeature(name string) *DiscreteFeature {
	return &DiscreteFeature{name: name, kind: Numeric}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

// Kind returns whether the feature takes text or numeric values.
func (df *DiscreteFeature) Kind() Kind {
	return df.kind
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value is of the kind of the feature and, if the feature declares available
values, is one of them, the method returns true and nil. Otherwise it returns
false and an error describing the reason. Nil and NaN values are never
valid.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	switch value.(type) {
	case nil:
		return false, fmt.Errorf("discrete feature %s got undefined value", df.name)
	case string:
		if df.kind != Text {
			return false, fmt.Errorf("numeric feature %s expects float64 value, got string value %q", df.name, value)
		}
	case float64:
		if df.kind != Numeric {
			return false, fmt.Errorf("text feature %s expects string value, got float64 value %v", df.name, value)
		}
		if math.IsNaN(value.(float64)) {
			return false, fmt.Errorf("numeric feature %s got NaN value", df.name)
		}
	default:
		return false, fmt.Errorf("discrete feature %s got unsupported %T value", df.name, value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if Compare(av, value) == 0 {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.name, Format(value))
}

/*
AvailableValues returns the declared values for the feature in natural
order, or nil if the feature accepts any value of its kind.
*/
func (df *DiscreteFeature) AvailableValues() []interface{} {
	return df.availableValues
}

/*
ParseValue takes the string representation of a value and returns it
converted to the kind of the feature.
*/
func (df *DiscreteFeature) ParseValue(s string) (interface{}, error) {
	if df.kind == Text {
		return s, nil
	}
	v, err := ParseNumber(s)
	if err != nil {
		return nil, fmt.Errorf("parsing value for numeric feature %s: %w", df.name, err)
	}
	return v, nil
}

func (df *DiscreteFeature) String() string {
	return df.name
}

// Names returns the names of the given features, in order.
func Names(features []Feature) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

// Find returns the feature with the given name from the slice, or nil.
func Find(features []Feature, name string) Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Index returns the position of the feature with the given name on the
// slice, or -1 if it is not there.
func Index(features []Feature, name string) int {
	for i, f := range features {
		if f.Name() == name {
			return i
		}
	}
	return -1
}
