package mongodataset

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"
)

func TestValidFieldName(t *testing.T) {
	assert.NoError(t, validFieldName("weather"))
	assert.Error(t, validFieldName("_id"))
	assert.Error(t, validFieldName("wind.speed"))
	assert.Error(t, validFieldName("$weather"))
}

func TestFieldNames(t *testing.T) {
	docs := []bson.M{
		{"_id": 1, "weather": "Sun", "play": "Yes"},
		{"_id": 2, "wind": 2, "play": "No"},
	}
	assert.Equal(t, []string{"play", "weather", "wind"}, fieldNames(docs))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "2", fieldString(2))
	assert.Equal(t, "3", fieldString(int64(3)))
	assert.Equal(t, "2.5", fieldString(2.5))
	assert.Equal(t, "true", fieldString(true))
	assert.Equal(t, "Sun", fieldString("Sun"))
}

// Set ORCHARD_TEST_MONGODB_URL (e.g. mongodb://localhost/orchard_test) to run
// this test against a live server.
func TestWriteAndReadDataset(t *testing.T) {
	url := os.Getenv("ORCHARD_TEST_MONGODB_URL")
	if url == "" {
		t.Skip("ORCHARD_TEST_MONGODB_URL not set")
	}
	ctx := context.Background()
	c, err := Dial(url, "samples_"+uuid.NewString())
	require.NoError(t, err)
	defer c.Close()
	defer c.collection().DropCollection()

	features := []feature.Feature{feature.NewTextFeature("weather"), feature.NewNumericFeature("wind")}
	ds, err := dataset.FromRows(features, [][]interface{}{{"Sun", 1.0}, {"Rain", 2.5}})
	require.NoError(t, err)
	written, err := c.Write(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	read, err := c.ReadDataset(ctx, nil, dataset.New)
	require.NoError(t, err)
	assert.Equal(t, []string{"weather", "wind"}, feature.Names(read.Features()))
	values, err := read.FeatureValues(ctx, read.Features()[1])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.5}, values)

	read, err = c.ReadDataset(ctx, features[:1], dataset.New)
	require.NoError(t, err)
	count, err := read.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = c.ReadDataset(ctx, []feature.Feature{feature.NewTextFeature("play")}, dataset.New)
	assert.Error(t, err)
}
