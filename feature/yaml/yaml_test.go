package yaml

import (
	"testing"

	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFeatures(t *testing.T) {
	md := []byte(`
features:
  weather: [Sun, Rain]
  play: text
  temperature: [10, 20.5]
  humidity: numeric
order: [weather, temperature]
`)
	features, err := ReadFeatures(md)
	require.NoError(t, err)
	assert.Equal(t, []string{"weather", "temperature", "humidity", "play"}, feature.Names(features))

	weather := features[0].(*feature.DiscreteFeature)
	assert.Equal(t, feature.Text, weather.Kind())
	assert.Equal(t, []interface{}{"Rain", "Sun"}, weather.AvailableValues())

	temperature := features[1].(*feature.DiscreteFeature)
	assert.Equal(t, feature.Numeric, temperature.Kind())
	assert.Equal(t, []interface{}{10.0, 20.5}, temperature.AvailableValues())

	humidity := features[2].(*feature.DiscreteFeature)
	assert.Equal(t, feature.Numeric, humidity.Kind())
	assert.Nil(t, humidity.AvailableValues())
}

func TestReadFeaturesErrors(t *testing.T) {
	testCases := map[string]string{
		"no features":       "order: [a]",
		"continuous":        "features:\n  a: continuous",
		"unknown kind":      "features:\n  a: boolean",
		"undeclared order":  "features:\n  a: text\norder: [b]",
		"invalid yaml":      "features: [",
		"invalid structure": "features:\n  a: {b: c}",
	}
	for name, md := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFeatures([]byte(md))
			assert.Error(t, err)
		})
	}
}
