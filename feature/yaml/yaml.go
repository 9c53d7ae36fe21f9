/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"
	"sort"

	"github.com/pbanos/orchard/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'text' or 'numeric' for features accepting any value of that kind,
or a list of valid values for features with a closed set of values (numeric if
every value is a number, text otherwise).
An optional order property lists feature names and fixes the order of the
returned slice, which is the global attribute ordering used to break ties when
growing trees. Features not listed in order follow in lexicographic order.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata := struct {
		Features map[string]interface{}
		Order    []string
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	byName := make(map[string]feature.Feature, len(metadata.Features))
	for fn, vs := range metadata.Features {
		f, err := parseFeature(fn, vs)
		if err != nil {
			return nil, err
		}
		byName[fn] = f
	}
	features := make([]feature.Feature, 0, len(byName))
	for _, name := range metadata.Order {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("order references undeclared feature %q", name)
		}
		features = append(features, f)
		delete(byName, name)
	}
	rest := make([]string, 0, len(byName))
	for name := range byName {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		features = append(features, byName[name])
	}
	return features, nil
}

func parseFeature(name string, declaration interface{}) (feature.Feature, error) {
	switch values := declaration.(type) {
	case string:
		switch values {
		case "text":
			return feature.NewTextFeature(name), nil
		case "numeric":
			return feature.NewNumericFeature(name), nil
		case "continuous":
			return nil, fmt.Errorf("feature %s is continuous: discretize it before mining rules", name)
		}
		return nil, fmt.Errorf("feature %s has unknown kind %q", name, values)
	case []interface{}:
		numeric := len(values) > 0
		for _, v := range values {
			switch v.(type) {
			case int, int64, float64:
			default:
				numeric = false
			}
		}
		vs := make([]interface{}, 0, len(values))
		for _, v := range values {
			if numeric {
				vs = append(vs, toFloat(v))
			} else {
				vs = append(vs, fmt.Sprintf("%v", v))
			}
		}
		if numeric {
			return feature.NewDiscreteFeature(name, feature.Numeric, vs), nil
		}
		return feature.NewDiscreteFeature(name, feature.Text, vs), nil
	}
	return nil, fmt.Errorf("invalid feature declaration of type %T", declaration)
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return features, err
}
