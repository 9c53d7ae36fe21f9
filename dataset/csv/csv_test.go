package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherCSV = `weather,play,wind
Sun,Yes,10
Sun,Yes,20.5
Rain,No,20.5
`

func TestReadDatasetInfersFeatures(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(weatherCSV), nil, dataset.New)
	require.NoError(t, err)
	features := ds.Features()
	require.Len(t, features, 3)
	assert.Equal(t, []string{"weather", "play", "wind"}, feature.Names(features))
	assert.Equal(t, feature.Text, features[0].(*feature.DiscreteFeature).Kind())
	assert.Equal(t, feature.Numeric, features[2].(*feature.DiscreteFeature).Kind())

	values, err := ds.FeatureValues(context.Background(), features[2])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10.0, 20.5}, values)
}

func TestReadDatasetNaNColumnIsText(t *testing.T) {
	ctx := context.Background()
	ds, err := ReadDataset(strings.NewReader("grade,pass\n1,yes\n1,yes\n2,no\nNaN,no\n"), nil, dataset.New)
	require.NoError(t, err)
	grade := ds.Features()[0]
	assert.Equal(t, feature.Text, grade.(*feature.DiscreteFeature).Kind())

	values, err := ds.FeatureValues(ctx, grade)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"1", "2", "NaN"}, values)

	var total float64
	for _, v := range values {
		support, err := dataset.Support(ctx, ds, feature.Predicate{feature.NewDiscreteCriterion(grade, v)})
		require.NoError(t, err)
		total += support
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	support, err := dataset.Support(ctx, ds, feature.Predicate{feature.NewDiscreteCriterion(grade, "1")})
	require.NoError(t, err)
	assert.Equal(t, 0.5, support)
}

func TestReadDatasetWithFeatures(t *testing.T) {
	features := []feature.Feature{
		feature.NewNumericFeature("wind"),
		feature.NewTextFeature("play"),
		feature.NewDiscreteFeature("weather", feature.Text, []interface{}{"Sun", "Rain"}),
	}
	ds, err := ReadDataset(strings.NewReader(weatherCSV), features, dataset.New)
	require.NoError(t, err)
	assert.Equal(t, []string{"wind", "play", "weather"}, feature.Names(ds.Features()))
	count, err := ds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReadDatasetErrors(t *testing.T) {
	weather := feature.NewDiscreteFeature("weather", feature.Text, []interface{}{"Sun"})
	testCases := []struct {
		name     string
		content  string
		features []feature.Feature
	}{
		{"empty", "", nil},
		{"empty cell", "weather,play\nSun,\n", nil},
		{"unknown column", "weather,play\nSun,Yes\n", []feature.Feature{weather}},
		{"missing column", "weather\nSun\n", []feature.Feature{weather, feature.NewTextFeature("play")}},
		{"invalid value", "weather\nRain\n", []feature.Feature{weather}},
		{"short row", "weather,play\nSun\n", nil},
		{"NaN value", "wind\n10\nNaN\n", []feature.Feature{feature.NewNumericFeature("wind")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tc.content), tc.features, dataset.New)
			assert.Error(t, err)
		})
	}
}

func TestWriteCSVDataset(t *testing.T) {
	ctx := context.Background()
	ds, err := ReadDataset(strings.NewReader(weatherCSV), nil, dataset.New)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, WriteCSVDataset(ctx, &b, ds))
	assert.Equal(t, weatherCSV, b.String())

	again, err := ReadDataset(&b, nil, dataset.New)
	require.NoError(t, err)
	count, err := again.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
