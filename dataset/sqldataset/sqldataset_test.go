package sqldataset_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/sqldataset"
	"github.com/pbanos/orchard/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherDB(t *testing.T) sqldataset.Adapter {
	a, err := sqlite3adapter.New(filepath.Join(t.TempDir(), "weather.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	_, err = a.DB().Exec(`CREATE TABLE samples (weather TEXT, play TEXT, wind REAL, gusts INTEGER)`)
	require.NoError(t, err)
	_, err = a.DB().Exec(`INSERT INTO samples VALUES ('Sun', 'Yes', 10.5, 1), ('Sun', 'Yes', 20, 2), ('Rain', 'No', 20, 2)`)
	require.NoError(t, err)
	return a
}

func TestReadDatasetInfersFeatures(t *testing.T) {
	ctx := context.Background()
	a := weatherDB(t)
	ds, err := sqldataset.ReadDataset(ctx, a, "samples", nil, dataset.New)
	require.NoError(t, err)
	assert.Equal(t, []string{"weather", "play", "wind", "gusts"}, feature.Names(ds.Features()))
	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	values, err := ds.FeatureValues(ctx, ds.Features()[2])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{10.5, 20.0}, values)
	values, err = ds.FeatureValues(ctx, ds.Features()[3])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0}, values)
}

func TestReadDatasetWithFeatures(t *testing.T) {
	ctx := context.Background()
	a := weatherDB(t)
	features := []feature.Feature{feature.NewTextFeature("play"), feature.NewTextFeature("weather")}
	ds, err := sqldataset.ReadDataset(ctx, a, "samples", features, dataset.New)
	require.NoError(t, err)
	assert.Equal(t, []string{"play", "weather"}, feature.Names(ds.Features()))
	counts, err := ds.CountFeatureValues(ctx, features[1])
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Sun": 2, "Rain": 1}, counts)
}

func TestReadDatasetErrors(t *testing.T) {
	ctx := context.Background()
	a := weatherDB(t)
	_, err := sqldataset.ReadDataset(ctx, a, "missing", nil, dataset.New)
	assert.Error(t, err)
	_, err = sqldataset.ReadDataset(ctx, a, `bad"name`, nil, dataset.New)
	assert.Error(t, err)
	_, err = sqldataset.ReadDataset(ctx, a, "samples", []feature.Feature{feature.NewTextFeature("humidity")}, dataset.New)
	assert.Error(t, err)

	_, err = a.DB().Exec(`INSERT INTO samples VALUES ('Rain', NULL, 1, 1)`)
	require.NoError(t, err)
	_, err = sqldataset.ReadDataset(ctx, a, "samples", nil, dataset.New)
	assert.Error(t, err)
}
