package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/orchard/feature"
)

/*
CriteriaEncodeDecoder is an interface for objects
that allow encoding criteria into slices of
bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	//Encode receives a feature.DiscreteCriterion
	// and returns a slice of bytes with the criterion
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.DiscreteCriterion) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.DiscreteCriterion decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.DiscreteCriterion, error)
}

type jsonCriteriaEncodeDecoder []feature.Feature

type jsonCriterion struct {
	Feature string      `json:"f"`
	Value   interface{} `json:"v"`
}

// NewCriteriaEncodeDecoder takes a slice of feature.Feature and returns a
// CriteriaEncodeDecoder that marshals and unmarshals
// criteria into/from slices of bytes as JSON.
// Specifically, criteria are encoded as a JSON object
// with an "f" property set to the name of the feature
// of the criterion and a "v" property with its value, a
// JSON string for text features and a JSON number for
// numeric ones.
func NewCriteriaEncodeDecoder(features []feature.Feature) CriteriaEncodeDecoder {
	return jsonCriteriaEncodeDecoder(features)
}

func (jced jsonCriteriaEncodeDecoder) Encode(c feature.DiscreteCriterion) ([]byte, error) {
	return json.Marshal(&jsonCriterion{
		Feature: c.Feature().Name(),
		Value:   c.Value(),
	})
}

func (jced jsonCriteriaEncodeDecoder) Decode(data []byte) (feature.DiscreteCriterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return nil, err
	}
	return jc.Criterion(jced)
}

func (jc *jsonCriterion) Criterion(features []feature.Feature) (feature.DiscreteCriterion, error) {
	f := feature.Find(features, jc.Feature)
	if f == nil {
		return nil, fmt.Errorf("unknown feature '%s'", jc.Feature)
	}
	switch jc.Value.(type) {
	case string, float64:
	default:
		return nil, fmt.Errorf("criterion on feature '%s' has unsupported %T value", jc.Feature, jc.Value)
	}
	if ok, err := f.Valid(jc.Value); !ok {
		return nil, fmt.Errorf("decoding criterion: %w", err)
	}
	return feature.NewDiscreteCriterion(f, jc.Value), nil
}
