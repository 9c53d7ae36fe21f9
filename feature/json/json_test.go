package json

import (
	"testing"

	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaEncodeDecoder(t *testing.T) {
	features := []feature.Feature{
		feature.NewDiscreteFeature("weather", feature.Text, []interface{}{"Sun", "Rain"}),
		feature.NewNumericFeature("temperature"),
	}
	ced := NewCriteriaEncodeDecoder(features)
	for _, c := range []feature.DiscreteCriterion{
		feature.NewDiscreteCriterion(features[0], "Sun"),
		feature.NewDiscreteCriterion(features[1], 21.5),
	} {
		data, err := ced.Encode(c)
		require.NoError(t, err)
		decoded, err := ced.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, c.String(), decoded.String())
		assert.Equal(t, c.Value(), decoded.Value())
	}
	data, err := ced.Encode(feature.NewDiscreteCriterion(features[1], 3.0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":"temperature","v":3}`, string(data))
}

func TestCriteriaEncodeDecoderDecodeErrors(t *testing.T) {
	features := []feature.Feature{feature.NewDiscreteFeature("weather", feature.Text, []interface{}{"Sun", "Rain"})}
	ced := NewCriteriaEncodeDecoder(features)
	for _, data := range []string{
		`{"f":"humidity","v":"high"}`,
		`{"f":"weather","v":"Snow"}`,
		`{"f":"weather","v":true}`,
		`{"f":"weather","v":1}`,
		`not json`,
	} {
		_, err := ced.Decode([]byte(data))
		assert.Error(t, err, data)
	}
}
